package game

import "loteria-service/internal/model"

// Board and roster bounds are game rules, not configuration.
const (
	BoardSize     = 16
	MinPlayers    = 4
	MaxPlayersCap = 16
)

// StateSnapshot is the public view of one game, returned by every lifecycle
// operation and streamed to websocket subscribers.
type StateSnapshot struct {
	GameID        int64       `json:"gameId"`
	JoinCode      string      `json:"joinCode"`
	State         string      `json:"state"`
	HostID        int64       `json:"hostId"`
	MaxPlayers    int         `json:"maxPlayers"`
	PlayerCount   int         `json:"playerCount"`
	Revealed      []int64     `json:"revealed"`
	LastCard      *model.Card `json:"lastCard,omitempty"`
	WinnerID      *int64      `json:"winnerId,omitempty"`
	Cheaters      []int64     `json:"cheaters"`
	Confirmations []int64     `json:"confirmations"`
}

type MarkOutcome string

const (
	// OutcomeMarked: the mark was placed, board not yet complete.
	OutcomeMarked MarkOutcome = "marked"
	// OutcomeWin: the mark completed the board; the game is finished.
	OutcomeWin MarkOutcome = "win"
	// OutcomeCheatDetected: the position's card was not revealed; the player
	// has been ejected. This is a detection result, not a failure.
	OutcomeCheatDetected MarkOutcome = "cheat_detected"
)

type MarkResult struct {
	Outcome    MarkOutcome    `json:"outcome"`
	TotalMarks int            `json:"totalMarks"`
	Game       *StateSnapshot `json:"game,omitempty"` // nil if the game was deleted
}

type RevealResult struct {
	Card          model.Card     `json:"card"`
	TotalRevealed int            `json:"totalRevealed"`
	TotalCards    int            `json:"totalCards"`
	Game          *StateSnapshot `json:"game"`
}

type LeaveResult struct {
	GameDeleted bool           `json:"gameDeleted"`
	NewHostID   *int64         `json:"newHostId,omitempty"`
	Game        *StateSnapshot `json:"game,omitempty"`
}

type ConfirmResult struct {
	Dissolved bool           `json:"dissolved"`
	Game      *StateSnapshot `json:"game,omitempty"`
}

type MeView struct {
	PlayerID  int64  `json:"playerId"`
	Nickname  string `json:"nickname"`
	IsHost    bool   `json:"isHost"`
	IsCheater bool   `json:"isCheater"`
}

// BoardView is a player's private board: cards in position order plus a
// marked flag per position.
type BoardView struct {
	BoardID int64        `json:"boardId"`
	Cards   []model.Card `json:"cards"`
	Marked  []bool       `json:"marked"`
}

type PlayerStateResult struct {
	Game  *StateSnapshot `json:"game"`
	Me    MeView         `json:"me"`
	Board *BoardView     `json:"board,omitempty"`
}

type PlayerBoardsEntry struct {
	Player MeView     `json:"player"`
	Board  *BoardView `json:"board,omitempty"`
}
