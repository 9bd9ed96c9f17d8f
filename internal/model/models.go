package model

import (
	"time"

	"gorm.io/datatypes"
)

// Game lifecycle states. Transitions in internal/service/game are the only
// writers of the state column; any other value found on load is corrupt.
const (
	GameStateWaiting        = "waiting"
	GameStateStarted        = "started"
	GameStateFinished       = "finished"
	GameStateRematchPending = "rematch_pending"
)

func ValidGameState(state string) bool {
	switch state {
	case GameStateWaiting, GameStateStarted, GameStateFinished, GameStateRematchPending:
		return true
	}
	return false
}

// User is a registered player. GameID is nil while the player is not seated
// in any game; IsHost and IsCheater are only meaningful while seated and are
// cleared whenever the player leaves or is ejected.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Nickname     string
	GameID       *int64 `gorm:"index"`
	IsHost       bool
	IsCheater    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Card is one entry of the fixed 54-card catalog, seeded at bootstrap and
// never mutated afterwards.
type Card struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Ordinal   int   `gorm:"unique;not null"` // 1..54
	Name      string
	ImageRef  string
	CreatedAt time.Time
}

type Game struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	JoinCode   string `gorm:"unique;not null"`
	State      string `gorm:"not null"`
	HostID     int64
	MaxPlayers int
	WinnerID   *int64
	// RevealedJSON holds the reveal order as a JSON array of card ids; it
	// grows monotonically and never exceeds the catalog size.
	RevealedJSON datatypes.JSON
	// CheatersJSON is the permanent record of ejected cheaters for this game.
	CheatersJSON datatypes.JSON
	// ConfirmationsJSON holds player ids that accepted a pending rematch.
	// Non-empty only while State is rematch_pending; the host is always
	// included.
	ConfirmationsJSON datatypes.JSON
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Board is a player's private 4x4 grid: 16 distinct catalog ids in position
// order (index 0..15 maps to a grid cell).
type Board struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	GameID    int64 `gorm:"index"`
	PlayerID  int64 `gorm:"index"`
	CardsJSON datatypes.JSON
	CreatedAt time.Time
}

// Mark is a token on one board position. Immutable once created; deleted
// together with its board.
type Mark struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	BoardID   int64 `gorm:"index"`
	Position  int   // 0..15
	CreatedAt time.Time
}
