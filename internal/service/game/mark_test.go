package game_test

import (
	"context"
	"errors"
	"testing"

	"loteria-service/internal/model"
	"loteria-service/internal/service/catalog"
	"loteria-service/internal/service/game"
	appErr "loteria-service/pkg/errors"
)

func TestRevealNext(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newStartedGame(t, svc, db, 4)

	seen := make(map[int64]bool, catalog.DeckSize)
	for i := 1; i <= catalog.DeckSize; i++ {
		result, err := svc.RevealNext(ctx, gameID, ids[0])
		if err != nil {
			t.Fatalf("reveal %d failed: %v", i, err)
		}
		if result.TotalRevealed != i {
			t.Fatalf("expected %d revealed, got %d", i, result.TotalRevealed)
		}
		if seen[result.Card.ID] {
			t.Fatalf("card %d revealed twice", result.Card.ID)
		}
		seen[result.Card.ID] = true
	}

	_, err := svc.RevealNext(ctx, gameID, ids[0])
	if !errors.Is(err, appErr.ErrDeckExhausted) {
		t.Fatalf("expected ErrDeckExhausted after full deck, got %v", err)
	}
}

func TestRevealNextHostOnly(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newStartedGame(t, svc, db, 4)

	_, err := svc.RevealNext(ctx, gameID, ids[1])
	if !errors.Is(err, appErr.ErrNotHost) {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
}

func TestRevealNextNotStarted(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newWaitingGame(t, svc, db, 4)

	_, err := svc.RevealNext(ctx, gameID, ids[0])
	if !errors.Is(err, appErr.ErrGameNotStarted) {
		t.Fatalf("expected ErrGameNotStarted, got %v", err)
	}
}

func TestMarkPosition(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newStartedGame(t, svc, db, 4)
	revealAll(t, svc, gameID, ids[0])

	result, err := svc.MarkPosition(ctx, gameID, ids[1], 3)
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if result.Outcome != game.OutcomeMarked {
		t.Fatalf("expected marked outcome, got %q", result.Outcome)
	}
	if result.TotalMarks != 1 {
		t.Fatalf("expected 1 mark, got %d", result.TotalMarks)
	}

	_, err = svc.MarkPosition(ctx, gameID, ids[1], 3)
	if !errors.Is(err, appErr.ErrAlreadyMarked) {
		t.Fatalf("expected ErrAlreadyMarked, got %v", err)
	}
}

func TestMarkPositionBounds(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newStartedGame(t, svc, db, 4)

	for _, position := range []int{-1, game.BoardSize} {
		_, err := svc.MarkPosition(ctx, gameID, ids[1], position)
		if !errors.Is(err, appErr.ErrInvalidPosition) {
			t.Fatalf("position=%d: expected ErrInvalidPosition, got %v", position, err)
		}
	}
}

func TestMarkPositionNotStarted(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newWaitingGame(t, svc, db, 4)

	_, err := svc.MarkPosition(ctx, gameID, ids[1], 0)
	if !errors.Is(err, appErr.ErrGameNotStarted) {
		t.Fatalf("expected ErrGameNotStarted, got %v", err)
	}
}

func TestMarkUnrevealedEjectsCheater(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newStartedGame(t, svc, db, 5)

	// Nothing revealed yet, so any mark is a cheat.
	result, err := svc.MarkPosition(ctx, gameID, ids[2], 0)
	if err != nil {
		t.Fatalf("mark returned error instead of detection: %v", err)
	}
	if result.Outcome != game.OutcomeCheatDetected {
		t.Fatalf("expected cheat detection, got %q", result.Outcome)
	}
	if result.Game == nil || result.Game.PlayerCount != 4 {
		t.Fatalf("expected 4 players after ejection: %+v", result.Game)
	}

	cheaterFound := false
	for _, id := range result.Game.Cheaters {
		if id == ids[2] {
			cheaterFound = true
		}
	}
	if !cheaterFound {
		t.Fatalf("cheater missing from permanent record: %v", result.Game.Cheaters)
	}

	// The ejected player is fully detached and the transient flag is reset.
	u := reloadUser(t, db, ids[2])
	if u.GameID != nil || u.IsHost || u.IsCheater {
		t.Fatalf("cheater not detached cleanly: %+v", u)
	}
	var boards int64
	if err := db.Model(&model.Board{}).Where("game_id = ? AND player_id = ?", gameID, ids[2]).Count(&boards).Error; err != nil {
		t.Fatalf("count boards failed: %v", err)
	}
	if boards != 0 {
		t.Fatal("cheater's board should be purged")
	}

	// The game keeps running for everyone else.
	var g model.Game
	if err := db.First(&g, gameID).Error; err != nil {
		t.Fatalf("load game failed: %v", err)
	}
	if g.State != model.GameStateStarted {
		t.Fatalf("expected game still started, got %q", g.State)
	}
}

func TestCheatingHostTriggersSuccession(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newStartedGame(t, svc, db, 5)

	result, err := svc.MarkPosition(ctx, gameID, ids[0], 0)
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if result.Outcome != game.OutcomeCheatDetected {
		t.Fatalf("expected cheat detection, got %q", result.Outcome)
	}
	if result.Game.HostID != ids[1] {
		t.Fatalf("expected host handed to %d, got %d", ids[1], result.Game.HostID)
	}

	successor := reloadUser(t, db, ids[1])
	if !successor.IsHost {
		t.Fatalf("successor not flagged as host: %+v", successor)
	}
}

func TestMarkFullBoardWins(t *testing.T) {
	ctx := context.Background()
	db, svc := newGameService(t)
	gameID, ids := newStartedGame(t, svc, db, 4)
	revealAll(t, svc, gameID, ids[0])

	winner := ids[1]
	var last *game.MarkResult
	for position := 0; position < game.BoardSize; position++ {
		result, err := svc.MarkPosition(ctx, gameID, winner, position)
		if err != nil {
			t.Fatalf("mark %d failed: %v", position, err)
		}
		last = result
	}
	if last.Outcome != game.OutcomeWin {
		t.Fatalf("expected win on the final mark, got %q", last.Outcome)
	}
	if last.Game.State != model.GameStateFinished {
		t.Fatalf("expected finished state, got %q", last.Game.State)
	}
	if last.Game.WinnerID == nil || *last.Game.WinnerID != winner {
		t.Fatalf("unexpected winner: %v", last.Game.WinnerID)
	}

	// Boards are purged but everyone stays seated for a possible rematch.
	var boards int64
	if err := db.Model(&model.Board{}).Where("game_id = ?", gameID).Count(&boards).Error; err != nil {
		t.Fatalf("count boards failed: %v", err)
	}
	if boards != 0 {
		t.Fatal("boards should be purged after the win")
	}
	for _, id := range ids {
		u := reloadUser(t, db, id)
		if u.GameID == nil || *u.GameID != gameID {
			t.Fatalf("player %d unseated by the win: %+v", id, u)
		}
	}

	// No marks land on a finished game.
	_, err := svc.MarkPosition(ctx, gameID, ids[2], 0)
	if !errors.Is(err, appErr.ErrGameNotStarted) {
		t.Fatalf("expected ErrGameNotStarted after finish, got %v", err)
	}
}
