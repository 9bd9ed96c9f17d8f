package game

import (
	"context"

	"loteria-service/internal/model"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"
	"loteria-service/pkg/utils/random"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProposeRematch opens the rematch protocol on a finished game. The host is
// confirmed implicitly.
func (s *Service) ProposeRematch(ctx context.Context, gameID, hostID int64) (*StateSnapshot, error) {
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
		if g.State != model.GameStateFinished {
			return appErr.ErrGameNotFinished
		}

		g.State = model.GameStateRematchPending
		g.ConfirmationsJSON = idsToJSON([]int64{hostID})
		if err := tx.Model(g).Updates(map[string]interface{}{
			"state":              g.State,
			"confirmations_json": g.ConfirmationsJSON,
		}).Error; err != nil {
			return err
		}

		snap, err = buildSnapshot(tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("rematch proposed",
		zap.Int64("gameID", gameID),
		zap.Int64("hostID", hostID),
	)
	s.notifyState(gameID, snap)
	return snap, nil
}

// ConfirmRematch records a non-host player's answer. Accepting is
// idempotent. Rejecting evicts the player; if that leaves the roster below
// the minimum, the whole game dissolves.
func (s *Service) ConfirmRematch(ctx context.Context, gameID, playerID int64, accept bool) (*ConfirmResult, error) {
	unlock := s.lockGame(gameID)
	result := &ConfirmResult{}
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
		if g.State != model.GameStateRematchPending {
			return appErr.ErrGameNotRematchPending
		}
		u, err := loadMember(tx, gameID, playerID)
		if err != nil {
			return err
		}
		if u.ID == g.HostID {
			return appErr.ErrHostAutoConfirmed
		}

		confirmed, err := idsFromJSON(g.ConfirmationsJSON)
		if err != nil {
			return err
		}

		if accept {
			if !containsID(confirmed, playerID) {
				g.ConfirmationsJSON = idsToJSON(append(confirmed, playerID))
				if err := tx.Model(g).Update("confirmations_json", g.ConfirmationsJSON).Error; err != nil {
					return err
				}
			}
			result.Game, err = buildSnapshot(tx, g)
			return err
		}

		if err := evictPlayer(tx, gameID, u); err != nil {
			return err
		}
		if containsID(confirmed, playerID) {
			g.ConfirmationsJSON = idsToJSON(removeID(confirmed, playerID))
			if err := tx.Model(g).Update("confirmations_json", g.ConfirmationsJSON).Error; err != nil {
				return err
			}
		}

		count, err := rosterCount(tx, gameID)
		if err != nil {
			return err
		}
		if count < MinPlayers {
			if err := dissolveGame(tx, g); err != nil {
				return err
			}
			result.Dissolved = true
			return nil
		}

		result.Game, err = buildSnapshot(tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}
	gameGone = result.Dissolved

	logger.Log.Info("rematch answer",
		zap.Int64("gameID", gameID),
		zap.Int64("playerID", playerID),
		zap.Bool("accept", accept),
		zap.Bool("dissolved", result.Dissolved),
	)
	if result.Dissolved {
		s.notifyClosed(gameID)
	} else {
		s.notifyState(gameID, result.Game)
	}
	return result, nil
}

// FinalizeRematch spawns the successor game for the confirmed players and
// deletes the old one. The proposer hosts the new game, which starts
// immediately with fresh boards. All-or-nothing: any failure rolls the whole
// move back.
func (s *Service) FinalizeRematch(ctx context.Context, gameID, hostID int64) (*StateSnapshot, error) {
	unlock := s.lockGame(gameID)
	gameGone := false
	defer func() {
		unlock()
		if gameGone {
			s.dropLock(gameID)
		}
	}()

	var snap *StateSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, gameID)
		if err != nil {
			return err
		}
		if g.State != model.GameStateRematchPending {
			return appErr.ErrGameNotRematchPending
		}
		u, err := loadMember(tx, gameID, hostID)
		if err != nil {
			return err
		}
		if err := requireHost(g, u); err != nil {
			return err
		}

		confirmed, err := idsFromJSON(g.ConfirmationsJSON)
		if err != nil {
			return err
		}
		cheaters, err := idsFromJSON(g.CheatersJSON)
		if err != nil {
			return err
		}

		players, err := roster(tx, gameID)
		if err != nil {
			return err
		}
		var movers []model.User
		var leftovers []model.User
		for _, p := range players {
			if containsID(confirmed, p.ID) && !p.IsCheater && !containsID(cheaters, p.ID) {
				movers = append(movers, p)
			} else {
				leftovers = append(leftovers, p)
			}
		}
		if len(movers) < MinPlayers {
			return appErr.ErrNotEnoughPlayers
		}
		if len(movers) > g.MaxPlayers {
			return appErr.ErrTooManyConfirmed
		}

		successor := model.Game{
			JoinCode:          random.Code(s.cfg.JoinCodeLength),
			State:             model.GameStateStarted,
			HostID:            g.HostID,
			MaxPlayers:        g.MaxPlayers,
			RevealedJSON:      emptyIDList(),
			CheatersJSON:      emptyIDList(),
			ConfirmationsJSON: emptyIDList(),
		}
		if err := tx.Create(&successor).Error; err != nil {
			return err
		}

		for i := range movers {
			if err := tx.Model(&movers[i]).Updates(map[string]interface{}{
				"game_id":    successor.ID,
				"is_host":    movers[i].ID == g.HostID,
				"is_cheater": false,
			}).Error; err != nil {
				return err
			}
		}
		if err := s.createBoards(tx, successor.ID, movers); err != nil {
			return err
		}

		for i := range leftovers {
			if err := evictPlayer(tx, gameID, &leftovers[i]); err != nil {
				return err
			}
		}
		if err := purgeGameBoards(tx, gameID); err != nil {
			return err
		}
		if err := tx.Delete(g).Error; err != nil {
			return err
		}

		snap, err = buildSnapshot(tx, &successor)
		return err
	})
	if err != nil {
		return nil, err
	}
	gameGone = true

	logger.Log.Info("rematch finalized",
		zap.Int64("oldGameID", gameID),
		zap.Int64("newGameID", snap.GameID),
		zap.Int("players", snap.PlayerCount),
	)
	s.notifyClosed(gameID)
	s.notifyState(snap.GameID, snap)
	return snap, nil
}
