package searcher

import (
	"fmt"

	"draughts/experiments/metrics"
	"draughts/game"
)

type Searcher interface {
	// FindMove returns the chosen move and the telemetry of the decision.
	// It panics when the state has no legal moves.
	FindMove(state game.State) (game.Move, metrics.SearchMetric)
}

// SelectMove runs a one-off search at the given difficulty (1-4).
func SelectMove(state game.State, difficulty int, options ...Option) game.Move {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		panic(fmt.Sprintf("searcher: difficulty %d out of range [%d, %d]", difficulty, MinDifficulty, MaxDifficulty))
	}
	move, _ := NewMinimax(DepthForDifficulty(difficulty), options...).FindMove(state)
	return move
}
