package game

import (
	"context"

	"loteria-service/internal/model"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RevealNext draws one card uniformly from the catalog cards not yet
// revealed and appends it to the game's reveal order. Host only.
func (s *Service) RevealNext(ctx context.Context, gameID, hostID int64) (*RevealResult, error) {
	unlock := s.lockGame(gameID)
	defer unlock()

	result := &RevealResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, gameID)
		if err != nil {
			return err
		}
		u, err := loadMember(tx, gameID, hostID)
		if err != nil {
			return err
		}
		if err := requireHost(g, u); err != nil {
			return err
		}
		if g.State != model.GameStateStarted {
			return appErr.ErrGameNotStarted
		}

		revealed, err := idsFromJSON(g.RevealedJSON)
		if err != nil {
			return err
		}
		catalog, err := catalogIDs(tx)
		if err != nil {
			return err
		}

		cardID, ok := s.drawReveal(catalog, revealed)
		if !ok {
			return appErr.ErrDeckExhausted
		}

		var card model.Card
		if err := tx.First(&card, cardID).Error; err != nil {
			return err
		}

		revealed = append(revealed, cardID)
		g.RevealedJSON = idsToJSON(revealed)
		if err := tx.Model(g).Update("revealed_json", g.RevealedJSON).Error; err != nil {
			return err
		}

		result.Card = card
		result.TotalRevealed = len(revealed)
		result.TotalCards = len(catalog)
		result.Game, err = buildSnapshot(tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("card revealed",
		zap.Int64("gameID", gameID),
		zap.Int64("cardID", result.Card.ID),
		zap.Int("totalRevealed", result.TotalRevealed),
	)
	s.notifyState(gameID, result.Game)
	return result, nil
}
