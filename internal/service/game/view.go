package game

import (
	"context"
	"errors"

	"loteria-service/internal/model"
	appErr "loteria-service/pkg/errors"

	"gorm.io/gorm"
)

// State returns the public snapshot plus the caller's own board view.
func (s *Service) State(ctx context.Context, gameID, playerID int64) (*PlayerStateResult, error) {
	db := s.db.WithContext(ctx)

	g, err := loadGame(db, gameID)
	if err != nil {
		return nil, err
	}
	u, err := loadMember(db, gameID, playerID)
	if err != nil {
		return nil, err
	}

	snap, err := buildSnapshot(db, g)
	if err != nil {
		return nil, err
	}

	board, err := loadBoardView(db, gameID, playerID)
	if err != nil {
		return nil, err
	}

	return &PlayerStateResult{
		Game: snap,
		Me: MeView{
			PlayerID:  u.ID,
			Nickname:  u.Nickname,
			IsHost:    u.IsHost,
			IsCheater: u.IsCheater,
		},
		Board: board,
	}, nil
}

// PlayerBoards returns every seated player's board. Host only.
func (s *Service) PlayerBoards(ctx context.Context, gameID, hostID int64) ([]PlayerBoardsEntry, error) {
	db := s.db.WithContext(ctx)

	g, err := loadGame(db, gameID)
	if err != nil {
		return nil, err
	}
	u, err := loadMember(db, gameID, hostID)
	if err != nil {
		return nil, err
	}
	if err := requireHost(g, u); err != nil {
		return nil, err
	}

	players, err := roster(db, gameID)
	if err != nil {
		return nil, err
	}

	entries := make([]PlayerBoardsEntry, 0, len(players))
	for _, p := range players {
		board, err := loadBoardView(db, gameID, p.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, PlayerBoardsEntry{
			Player: MeView{
				PlayerID:  p.ID,
				Nickname:  p.Nickname,
				IsHost:    p.IsHost,
				IsCheater: p.IsCheater,
			},
			Board: board,
		})
	}
	return entries, nil
}

// ValidateAccess reports whether the player may observe the game. Used by
// the websocket shell before subscribing.
func (s *Service) ValidateAccess(ctx context.Context, gameID, playerID int64) error {
	db := s.db.WithContext(ctx)
	if _, err := loadGame(db, gameID); err != nil {
		return err
	}
	_, err := loadMember(db, gameID, playerID)
	return err
}

// Snapshot returns the public view of a game without a membership check.
func (s *Service) Snapshot(ctx context.Context, gameID int64) (*StateSnapshot, error) {
	db := s.db.WithContext(ctx)
	g, err := loadGame(db, gameID)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(db, g)
}

// loadBoardView assembles a board's cards in position order with per-cell
// marked flags. Returns nil when the player holds no board.
func loadBoardView(db *gorm.DB, gameID, playerID int64) (*BoardView, error) {
	var board model.Board
	err := db.Where("game_id = ? AND player_id = ?", gameID, playerID).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ids, err := idsFromJSON(board.CardsJSON)
	if err != nil {
		return nil, err
	}

	var cards []model.Card
	if err := db.Where("id IN ?", ids).Find(&cards).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	ordered := make([]model.Card, 0, len(ids))
	for _, id := range ids {
		card, ok := byID[id]
		if !ok {
			return nil, appErr.ErrCorruptGameState
		}
		ordered = append(ordered, card)
	}

	marked := make([]bool, BoardSize)
	var marks []model.Mark
	if err := db.Where("board_id = ?", board.ID).Find(&marks).Error; err != nil {
		return nil, err
	}
	for _, m := range marks {
		if m.Position >= 0 && m.Position < BoardSize {
			marked[m.Position] = true
		}
	}

	return &BoardView{
		BoardID: board.ID,
		Cards:   ordered,
		Marked:  marked,
	}, nil
}
