package game

import (
	"context"
	"errors"

	"loteria-service/internal/model"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MarkPosition validates a mark attempt against the player's board and the
// revealed set. Marking a position whose card has not been revealed is a
// cheat signal: the player is ejected within the same transaction and the
// game records them permanently. Completing the board wins the game.
func (s *Service) MarkPosition(ctx context.Context, gameID, playerID int64, position int) (*MarkResult, error) {
	if position < 0 || position >= BoardSize {
		return nil, appErr.ErrInvalidPosition
	}

	unlock := s.lockGame(gameID)
	gameGone := false
	defer func() {
		unlock()
		if gameGone {
			s.dropLock(gameID)
		}
	}()

	result := &MarkResult{}
	gameDeleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, gameID)
		if err != nil {
			return err
		}
		if g.State != model.GameStateStarted {
			return appErr.ErrGameNotStarted
		}
		u, err := loadMember(tx, gameID, playerID)
		if err != nil {
			return err
		}

		var board model.Board
		if err := tx.Where("game_id = ? AND player_id = ?", gameID, playerID).First(&board).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErr.ErrBoardNotFound
			}
			return err
		}
		cards, err := idsFromJSON(board.CardsJSON)
		if err != nil {
			return err
		}
		if len(cards) != BoardSize {
			logger.Log.Error("board has wrong card count",
				zap.Int64("boardID", board.ID),
				zap.Int("cards", len(cards)),
			)
			return appErr.ErrCorruptGameState
		}

		revealed, err := idsFromJSON(g.RevealedJSON)
		if err != nil {
			return err
		}

		if !containsID(revealed, cards[position]) {
			deleted, err := s.ejectCheater(tx, g, u)
			if err != nil {
				return err
			}
			gameDeleted = deleted
			result.Outcome = OutcomeCheatDetected
			if !deleted {
				result.Game, err = buildSnapshot(tx, g)
				return err
			}
			return nil
		}

		var existing int64
		if err := tx.Model(&model.Mark{}).
			Where("board_id = ? AND position = ?", board.ID, position).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return appErr.ErrAlreadyMarked
		}

		mark := model.Mark{BoardID: board.ID, Position: position}
		if err := tx.Create(&mark).Error; err != nil {
			return err
		}

		var total int64
		if err := tx.Model(&model.Mark{}).Where("board_id = ?", board.ID).Count(&total).Error; err != nil {
			return err
		}
		result.TotalMarks = int(total)

		if total == BoardSize && !u.IsCheater {
			if err := s.finishWithWinner(tx, g, u.ID); err != nil {
				return err
			}
			result.Outcome = OutcomeWin
		} else {
			result.Outcome = OutcomeMarked
		}

		result.Game, err = buildSnapshot(tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}
	gameGone = gameDeleted

	switch result.Outcome {
	case OutcomeCheatDetected:
		logger.Log.Warn("cheat detected",
			zap.Int64("gameID", gameID),
			zap.Int64("playerID", playerID),
			zap.Int("position", position),
		)
	case OutcomeWin:
		logger.Log.Info("game won",
			zap.Int64("gameID", gameID),
			zap.Int64("winnerID", playerID),
		)
	}

	if gameDeleted {
		s.notifyClosed(gameID)
	} else {
		s.notifyState(gameID, result.Game)
	}
	return result, nil
}

// ejectCheater records the player in the game's cheaters list, purges their
// board and marks, clears their membership, and runs host succession if the
// cheater was hosting. Returns whether the game was deleted.
func (s *Service) ejectCheater(tx *gorm.DB, g *model.Game, u *model.User) (bool, error) {
	cheaters, err := idsFromJSON(g.CheatersJSON)
	if err != nil {
		return false, err
	}
	if !containsID(cheaters, u.ID) {
		g.CheatersJSON = idsToJSON(append(cheaters, u.ID))
		if err := tx.Model(g).Update("cheaters_json", g.CheatersJSON).Error; err != nil {
			return false, err
		}
	}

	// The flag flips on and is reset again as part of the same removal; the
	// cheaters list above is what survives.
	if err := tx.Model(u).Update("is_cheater", true).Error; err != nil {
		return false, err
	}
	wasHost := u.IsHost
	if err := evictPlayer(tx, g.ID, u); err != nil {
		return false, err
	}

	if wasHost {
		_, deleted, err := promoteNextHost(tx, g)
		return deleted, err
	}
	return false, nil
}

// finishWithWinner ends the game: winner recorded, state finished, every
// board purged. Players stay seated so the result can be read and a rematch
// proposed.
func (s *Service) finishWithWinner(tx *gorm.DB, g *model.Game, winnerID int64) error {
	if err := tx.Model(g).Updates(map[string]interface{}{
		"state":     model.GameStateFinished,
		"winner_id": winnerID,
	}).Error; err != nil {
		return err
	}
	g.State = model.GameStateFinished
	g.WinnerID = &winnerID
	return purgeGameBoards(tx, g.ID)
}
