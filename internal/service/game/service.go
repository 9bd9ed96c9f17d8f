package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"loteria-service/internal/model"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Config struct {
	JoinCodeLength int
}

func defaultConfig() Config {
	return Config{
		JoinCodeLength: 6,
	}
}

// Notifier receives public snapshots after every committed mutation. The
// websocket hub implements it; the core never pushes on its own.
type Notifier interface {
	PublishState(gameID int64, snap *StateSnapshot)
	PublishClosed(gameID int64)
}

// Service is the match lifecycle state machine. Commands against the same
// game are serialized through a per-game mutex; commands against different
// games run concurrently. Multi-entity mutations run inside one gorm
// transaction so they are all-or-nothing.
type Service struct {
	db  *gorm.DB
	cfg Config

	rngMu sync.Mutex
	rng   *rand.Rand

	locks    sync.Map // game id -> *sync.Mutex
	notifier Notifier
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:  db,
		cfg: defaultConfig(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) SetJoinCodeLength(n int) {
	if n > 0 {
		s.cfg.JoinCodeLength = n
	}
}

// SetRand swaps the draw source. Tests inject a seeded generator to make
// board and reveal draws deterministic.
func (s *Service) SetRand(r *rand.Rand) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = r
}

func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) randIntn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// lockGame serializes commands per game id. The caller must invoke the
// returned unlock.
func (s *Service) lockGame(gameID int64) func() {
	v, _ := s.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) notifyState(gameID int64, snap *StateSnapshot) {
	if s.notifier != nil && snap != nil {
		s.notifier.PublishState(gameID, snap)
	}
}

func (s *Service) notifyClosed(gameID int64) {
	if s.notifier != nil {
		s.notifier.PublishClosed(gameID)
	}
}

// dropLock forgets a deleted game's mutex. Must only run after the caller
// has released it, otherwise a later command could mint a fresh mutex while
// a straggler still holds the old one.
func (s *Service) dropLock(gameID int64) {
	s.locks.Delete(gameID)
}

// loadGame fetches a game and verifies its persisted state is one of the
// enumerated values. A value outside the set is reported as corrupt, never
// coerced to a guess.
func loadGame(tx *gorm.DB, gameID int64) (*model.Game, error) {
	var g model.Game
	if err := tx.First(&g, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrGameNotFound
		}
		return nil, err
	}
	if !model.ValidGameState(g.State) {
		logger.Log.Error("corrupt game state on load",
			zap.Int64("gameID", g.ID),
			zap.String("state", g.State),
		)
		return nil, appErr.ErrCorruptGameState
	}
	return &g, nil
}

// loadMember fetches a user and verifies they are seated in the given game.
func loadMember(tx *gorm.DB, gameID, playerID int64) (*model.User, error) {
	var u model.User
	if err := tx.First(&u, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrUserNotFound
		}
		return nil, err
	}
	if u.GameID == nil || *u.GameID != gameID {
		return nil, appErr.ErrNotInGame
	}
	return &u, nil
}

func requireHost(g *model.Game, u *model.User) error {
	if !u.IsHost || g.HostID != u.ID {
		return appErr.ErrNotHost
	}
	return nil
}

func rosterCount(tx *gorm.DB, gameID int64) (int, error) {
	var count int64
	err := tx.Model(&model.User{}).Where("game_id = ?", gameID).Count(&count).Error
	return int(count), err
}

func roster(tx *gorm.DB, gameID int64) ([]model.User, error) {
	var players []model.User
	err := tx.Where("game_id = ?", gameID).Order("id").Find(&players).Error
	return players, err
}

func buildSnapshot(tx *gorm.DB, g *model.Game) (*StateSnapshot, error) {
	revealed, err := idsFromJSON(g.RevealedJSON)
	if err != nil {
		return nil, err
	}
	cheaters, err := idsFromJSON(g.CheatersJSON)
	if err != nil {
		return nil, err
	}
	confirmations, err := idsFromJSON(g.ConfirmationsJSON)
	if err != nil {
		return nil, err
	}
	count, err := rosterCount(tx, g.ID)
	if err != nil {
		return nil, err
	}

	var last *model.Card
	if len(revealed) > 0 {
		var card model.Card
		if err := tx.First(&card, revealed[len(revealed)-1]).Error; err == nil {
			last = &card
		}
	}

	return &StateSnapshot{
		GameID:        g.ID,
		JoinCode:      g.JoinCode,
		State:         g.State,
		HostID:        g.HostID,
		MaxPlayers:    g.MaxPlayers,
		PlayerCount:   count,
		Revealed:      revealed,
		LastCard:      last,
		WinnerID:      g.WinnerID,
		Cheaters:      cheaters,
		Confirmations: confirmations,
	}, nil
}
