package errors

import "errors"

// Sentinel errors shared across services. The API layer maps these to HTTP
// statuses with errors.Is.
var (
	// Validation
	ErrInvalidMaxPlayers  = errors.New("max players must be between 4 and 16")
	ErrInvalidPosition    = errors.New("position must be between 0 and 15")
	ErrAlreadyInGame      = errors.New("player is already in a game")
	ErrHostAutoConfirmed  = errors.New("host is confirmed implicitly")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")

	// State
	ErrGameNotWaiting        = errors.New("game is not waiting for players")
	ErrGameNotStarted        = errors.New("game is not in progress")
	ErrGameNotFinished       = errors.New("game is not finished")
	ErrGameNotRematchPending = errors.New("no rematch is pending")
	ErrDeckExhausted         = errors.New("all cards have been revealed")
	ErrAlreadyMarked         = errors.New("position is already marked")

	// Authorization
	ErrNotHost      = errors.New("only the host may perform this action")
	ErrUnauthorized = errors.New("unauthorized")

	// Capacity
	ErrGameFull         = errors.New("game is full")
	ErrNotEnoughPlayers = errors.New("at least 4 players are required")
	ErrTooManyConfirmed = errors.New("confirmed players exceed max players")

	// Not found
	ErrGameNotFound  = errors.New("game not found")
	ErrBoardNotFound = errors.New("board not found")
	ErrNotInGame     = errors.New("player is not in this game")
	ErrUserNotFound  = errors.New("user not found")
	ErrCardNotFound  = errors.New("card not found")

	// Consistency. A game row whose state column holds a value outside the
	// enumerated set is corrupt; it is reported, never repaired in place.
	ErrCorruptGameState = errors.New("game state is corrupt")
)
