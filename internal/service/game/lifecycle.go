package game

import (
	"context"
	"errors"

	"loteria-service/internal/model"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"
	"loteria-service/pkg/utils/random"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Create opens a new game in the waiting state with the caller as host.
func (s *Service) Create(ctx context.Context, hostID int64, maxPlayers int) (*StateSnapshot, error) {
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayersCap {
		return nil, appErr.ErrInvalidMaxPlayers
	}

	var snap *StateSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.First(&u, hostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErr.ErrUserNotFound
			}
			return err
		}
		if u.GameID != nil {
			return appErr.ErrAlreadyInGame
		}

		g := model.Game{
			JoinCode:          random.Code(s.cfg.JoinCodeLength),
			State:             model.GameStateWaiting,
			HostID:            hostID,
			MaxPlayers:        maxPlayers,
			RevealedJSON:      emptyIDList(),
			CheatersJSON:      emptyIDList(),
			ConfirmationsJSON: emptyIDList(),
		}
		if err := tx.Create(&g).Error; err != nil {
			return err
		}

		if err := tx.Model(&u).Updates(map[string]interface{}{
			"game_id": g.ID,
			"is_host": true,
		}).Error; err != nil {
			return err
		}

		var err error
		snap, err = buildSnapshot(tx, &g)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("game created",
		zap.Int64("gameID", snap.GameID),
		zap.Int64("hostID", hostID),
		zap.Int("maxPlayers", maxPlayers),
	)
	return snap, nil
}

// Join seats a player in a waiting game identified by its join code.
func (s *Service) Join(ctx context.Context, playerID int64, joinCode string) (*StateSnapshot, error) {
	var ref model.Game
	if err := s.db.WithContext(ctx).Where("join_code = ?", joinCode).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrGameNotFound
		}
		return nil, err
	}

	unlock := s.lockGame(ref.ID)
	defer unlock()

	var snap *StateSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, ref.ID)
		if err != nil {
			return err
		}
		if g.State != model.GameStateWaiting {
			return appErr.ErrGameNotWaiting
		}

		var u model.User
		if err := tx.First(&u, playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErr.ErrUserNotFound
			}
			return err
		}
		if u.GameID != nil {
			return appErr.ErrAlreadyInGame
		}

		count, err := rosterCount(tx, g.ID)
		if err != nil {
			return err
		}
		if count >= g.MaxPlayers {
			return appErr.ErrGameFull
		}

		if err := tx.Model(&u).Updates(map[string]interface{}{
			"game_id": g.ID,
			"is_host": false,
		}).Error; err != nil {
			return err
		}

		snap, err = buildSnapshot(tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("player joined",
		zap.Int64("gameID", ref.ID),
		zap.Int64("playerID", playerID),
	)
	s.notifyState(ref.ID, snap)
	return snap, nil
}

// Start deals fresh boards and moves the game to started. In the waiting
// state the full roster plays; in the rematch-pending state only confirmed
// players remain and everyone else is evicted first.
func (s *Service) Start(ctx context.Context, gameID, hostID int64) (*StateSnapshot, error) {
	unlock := s.lockGame(gameID)
	defer unlock()

	var snap *StateSnapshot
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

		players, err := roster(tx, gameID)
		if err != nil {
			return err
		}

		switch g.State {
		case model.GameStateWaiting:
			if len(players) < MinPlayers {
				return appErr.ErrNotEnoughPlayers
			}
		case model.GameStateRematchPending:
			confirmed, err := idsFromJSON(g.ConfirmationsJSON)
			if err != nil {
				return err
			}
			keep := players[:0]
			var evict []model.User
			for _, p := range players {
				if containsID(confirmed, p.ID) && !p.IsCheater {
					keep = append(keep, p)
				} else {
					evict = append(evict, p)
				}
			}
			// Validate before mutating: a capacity failure must leave the
			// game untouched.
			if len(keep) < MinPlayers {
				return appErr.ErrNotEnoughPlayers
			}
			for i := range evict {
				if err := evictPlayer(tx, gameID, &evict[i]); err != nil {
					return err
				}
			}
			players = keep
		default:
			return appErr.ErrGameNotWaiting
		}

		if err := purgeGameBoards(tx, gameID); err != nil {
			return err
		}
		if err := s.createBoards(tx, gameID, players); err != nil {
			return err
		}

		if err := tx.Model(g).Updates(map[string]interface{}{
			"state":              model.GameStateStarted,
			"winner_id":          nil,
			"revealed_json":      emptyIDList(),
			"confirmations_json": emptyIDList(),
		}).Error; err != nil {
			return err
		}
		g.State = model.GameStateStarted
		g.WinnerID = nil
		g.RevealedJSON = emptyIDList()
		g.ConfirmationsJSON = emptyIDList()

		snap, err = buildSnapshot(tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("game started",
		zap.Int64("gameID", gameID),
		zap.Int("players", snap.PlayerCount),
	)
	s.notifyState(gameID, snap)
	return snap, nil
}

// Leave removes a player in any state, purging their board and marks.
// Leaving host hands the role to the lowest remaining player id; an emptied
// game is deleted; a rematch that can no longer reach the minimum roster is
// dissolved entirely.
func (s *Service) Leave(ctx context.Context, gameID, playerID int64) (*LeaveResult, error) {
	unlock := s.lockGame(gameID)
	result := &LeaveResult{}
	gameGone := false
	defer func() {
		unlock()
		if gameGone {
			s.dropLock(gameID)
		}
	}()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, gameID)
		if err != nil {
			return err
		}
		u, err := loadMember(tx, gameID, playerID)
		if err != nil {
			return err
		}
		wasHost := u.IsHost

		if err := evictPlayer(tx, gameID, u); err != nil {
			return err
		}

		confirmed, err := idsFromJSON(g.ConfirmationsJSON)
		if err != nil {
			return err
		}
		if containsID(confirmed, playerID) {
			g.ConfirmationsJSON = idsToJSON(removeID(confirmed, playerID))
			if err := tx.Model(g).Update("confirmations_json", g.ConfirmationsJSON).Error; err != nil {
				return err
			}
		}

		if g.State == model.GameStateRematchPending {
			count, err := rosterCount(tx, gameID)
			if err != nil {
				return err
			}
			if count < MinPlayers {
				if err := dissolveGame(tx, g); err != nil {
					return err
				}
				result.GameDeleted = true
				return nil
			}
		}

		if wasHost {
			newHost, deleted, err := promoteNextHost(tx, g)
			if err != nil {
				return err
			}
			if deleted {
				result.GameDeleted = true
				return nil
			}
			result.NewHostID = newHost
		}

		result.Game, err = buildSnapshot(tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}
	gameGone = result.GameDeleted

	logger.Log.Info("player left",
		zap.Int64("gameID", gameID),
		zap.Int64("playerID", playerID),
		zap.Bool("gameDeleted", result.GameDeleted),
	)
	if result.GameDeleted {
		s.notifyClosed(gameID)
	} else {
		s.notifyState(gameID, result.Game)
	}
	return result, nil
}

// Terminate tears the game down: every player is evicted and purged, then
// the game row is deleted. Host only, valid in any state.
func (s *Service) Terminate(ctx context.Context, gameID, hostID int64) error {
	unlock := s.lockGame(gameID)
	terminated := false
	defer func() {
		unlock()
		if terminated {
			s.dropLock(gameID)
		}
	}()

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
		return dissolveGame(tx, g)
	})
	if err != nil {
		return err
	}
	terminated = true

	logger.Log.Info("game terminated",
		zap.Int64("gameID", gameID),
		zap.Int64("hostID", hostID),
	)
	s.notifyClosed(gameID)
	return nil
}

// purgePlayerBoard deletes a player's board for one game together with its
// marks. No-op when the player holds no board.
func purgePlayerBoard(tx *gorm.DB, gameID, playerID int64) error {
	var board model.Board
	err := tx.Where("game_id = ? AND player_id = ?", gameID, playerID).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := tx.Where("board_id = ?", board.ID).Delete(&model.Mark{}).Error; err != nil {
		return err
	}
	return tx.Delete(&board).Error
}

// detachPlayer clears game membership and both transient flags. The cheater
// flag is only meaningful while seated; the game's cheaters list is the
// permanent record.
func detachPlayer(tx *gorm.DB, u *model.User) error {
	return tx.Model(u).Updates(map[string]interface{}{
		"game_id":    nil,
		"is_host":    false,
		"is_cheater": false,
	}).Error
}

func evictPlayer(tx *gorm.DB, gameID int64, u *model.User) error {
	if err := purgePlayerBoard(tx, gameID, u.ID); err != nil {
		return err
	}
	return detachPlayer(tx, u)
}

// purgeGameBoards deletes every board of the game, cascading to marks.
func purgeGameBoards(tx *gorm.DB, gameID int64) error {
	var boardIDs []int64
	if err := tx.Model(&model.Board{}).Where("game_id = ?", gameID).Pluck("id", &boardIDs).Error; err != nil {
		return err
	}
	if len(boardIDs) == 0 {
		return nil
	}
	if err := tx.Where("board_id IN ?", boardIDs).Delete(&model.Mark{}).Error; err != nil {
		return err
	}
	return tx.Where("game_id = ?", gameID).Delete(&model.Board{}).Error
}

// dissolveGame evicts every seated player and deletes the game row.
func dissolveGame(tx *gorm.DB, g *model.Game) error {
	if err := purgeGameBoards(tx, g.ID); err != nil {
		return err
	}
	if err := tx.Model(&model.User{}).Where("game_id = ?", g.ID).Updates(map[string]interface{}{
		"game_id":    nil,
		"is_host":    false,
		"is_cheater": false,
	}).Error; err != nil {
		return err
	}
	return tx.Delete(g).Error
}

// promoteNextHost hands the host role to the lowest remaining player id, or
// deletes the game when nobody is left.
func promoteNextHost(tx *gorm.DB, g *model.Game) (*int64, bool, error) {
	var next model.User
	err := tx.Where("game_id = ?", g.ID).Order("id").First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := purgeGameBoards(tx, g.ID); err != nil {
				return nil, false, err
			}
			return nil, true, tx.Delete(g).Error
		}
		return nil, false, err
	}
	if err := tx.Model(&next).Update("is_host", true).Error; err != nil {
		return nil, false, err
	}
	if err := tx.Model(g).Update("host_id", next.ID).Error; err != nil {
		return nil, false, err
	}
	g.HostID = next.ID

	// The host is confirmed implicitly, so succession during a pending
	// rematch carries the confirmation over to the new host. Without it the
	// confirmed-player filters would evict the host from their own game.
	if g.State == model.GameStateRematchPending {
		confirmed, err := idsFromJSON(g.ConfirmationsJSON)
		if err != nil {
			return nil, false, err
		}
		if !containsID(confirmed, next.ID) {
			g.ConfirmationsJSON = idsToJSON(append(confirmed, next.ID))
			if err := tx.Model(g).Update("confirmations_json", g.ConfirmationsJSON).Error; err != nil {
				return nil, false, err
			}
		}
	}
	return &next.ID, false, nil
}
