package engine

import (
	"context"

	"draughts/experiments/metrics"
	"draughts/game"
)

// Agent chooses the moves of one side.
type Agent interface {
	// FindMove panics when the state has no legal moves.
	FindMove(state game.State) (game.Move, metrics.SearchMetric)
}

type Engine interface {
	// Run plays a game till there's a winner or the turn limit is reached.
	// The winner is game.NoColor when the limit was hit first.
	Run(ctx context.Context) (winner game.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
