package engine

import (
	"context"
	"fmt"
	"time"

	"draughts/communication/client"
	"draughts/experiments/metrics"
	"draughts/game"

	"github.com/rs/zerolog/log"
)

// Remote is an agent whose moves are searched by a draughts server.
type Remote struct {
	client     *client.Client
	difficulty int
	timeout    time.Duration
}

func RemoteAgent(c *client.Client, difficulty int, timeout time.Duration) *Remote {
	return &Remote{
		client:     c,
		difficulty: difficulty,
		timeout:    timeout,
	}
}

// FindMove panics when the server cannot be reached. An illegal answer is replaced by the first
// legal move.
func (r *Remote) FindMove(state game.State) (game.Move, metrics.SearchMetric) {
	legal := state.LegalMoves()
	if len(legal) == 0 {
		panic("No legal moves at all")
	}

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	move, metric, err := r.client.FindMove(ctx, state, r.difficulty)
	if err != nil {
		panic(fmt.Sprintf("remote agent at %s failed: %v", r.client.URL(), err))
	}
	if !state.IsLegal(move) {
		log.Warn().Msgf("remote agent at %s returned illegal move %s => forcing %s", r.client.URL(), move, legal[0])
		return legal[0], metric
	}
	return move, metric
}

func (r *Remote) String() string {
	return fmt.Sprintf("remote level %d at %s", r.difficulty, r.client.URL())
}
