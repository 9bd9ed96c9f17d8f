package game

import (
	"gorm.io/gorm"

	"loteria-service/internal/model"
)

// catalogIDs returns every catalog card id in ordinal order.
func catalogIDs(tx *gorm.DB) ([]int64, error) {
	var ids []int64
	err := tx.Model(&model.Card{}).Order("ordinal").Pluck("id", &ids).Error
	return ids, err
}

// drawBoardCards samples BoardSize distinct ids from the catalog without
// replacement, uniformly at random. Position order is meaningful and kept.
func (s *Service) drawBoardCards(catalog []int64) []int64 {
	pool := append([]int64(nil), catalog...)
	cards := make([]int64, 0, BoardSize)
	for i := 0; i < BoardSize; i++ {
		j := s.randIntn(len(pool))
		cards = append(cards, pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return cards
}

// drawReveal picks one card uniformly from the catalog cards not yet
// revealed. Returns false when the deck is exhausted.
func (s *Service) drawReveal(catalog, revealed []int64) (int64, bool) {
	remaining := make([]int64, 0, len(catalog)-len(revealed))
	for _, id := range catalog {
		if !containsID(revealed, id) {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		return 0, false
	}
	return remaining[s.randIntn(len(remaining))], true
}

// createBoards deals a fresh board for each player inside the transaction.
func (s *Service) createBoards(tx *gorm.DB, gameID int64, players []model.User) error {
	catalog, err := catalogIDs(tx)
	if err != nil {
		return err
	}
	for _, p := range players {
		board := model.Board{
			GameID:    gameID,
			PlayerID:  p.ID,
			CardsJSON: idsToJSON(s.drawBoardCards(catalog)),
		}
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
	}
	return nil
}
