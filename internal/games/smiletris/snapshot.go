package smiletris

import "github.com/vovakirdan/smiletris/internal/games/smiletris/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StateReady        GameStateType = "ready"
	StatePlaying      GameStateType = "playing"
	StatePaused       GameStateType = "paused"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick  uint64
	Mode  string
	State GameStateType
	Board engine.Snapshot
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:  g.tick,
		Mode:  string(g.mode),
		State: g.stateType(),
	}
	if g.engine != nil {
		s.Board = g.engine.Snapshot()
	}
	return s
}

func (g *Game) stateType() GameStateType {
	switch {
	case g.tooSmall:
		return StatePausedSmall
	case g.won:
		return StateWin
	case g.gameOver:
		return StateGameOver
	case g.levelCleared:
		return StateLevelCleared
	case g.engine == nil:
		return StateReady
	}
	switch g.engine.Status() {
	case engine.StatusReady:
		return StateReady
	case engine.StatusPaused:
		return StatePaused
	}
	return StatePlaying
}
