package engine

import (
	"context"
	"fmt"
	"time"

	"draughts/experiments/metrics"
	"draughts/game"
	"draughts/meta"

	"github.com/rs/zerolog/log"
)

type LocalOption func(e *Local)

// Local plays two agents against each other in the current process.
type Local struct {
	state    game.State
	agents   map[game.Color]Agent
	maxTurns int
}

// WithStartState starts the game from an arbitrary position instead of the initial one.
func WithStartState(state game.State) LocalOption {
	return func(e *Local) {
		e.state = state
	}
}

func WithMaxTurns(maxTurns int) LocalOption {
	return func(e *Local) {
		if maxTurns > 0 {
			e.maxTurns = maxTurns
		}
	}
}

func LocalEngine(black, white Agent, options ...LocalOption) *Local {
	if black == nil || white == nil {
		panic("need an agent for both colours")
	}
	e := &Local{
		state:    game.NewGame(),
		agents:   map[game.Color]Agent{game.Black: black, game.White: white},
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Local) State() game.State { return e.state }

// Run executes the entire game loop until a winner is found.
func (e *Local) Run(ctx context.Context) (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.state.Turn()),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("black: %v, white: %v, %s starts with evaluation %d",
		e.agents[game.Black], e.agents[game.White], e.state.Turn(), game.Evaluate(e.state))

	step := 0
	for !e.state.IsOver() && step < e.maxTurns {
		if err := ctx.Err(); err != nil {
			return game.NoColor, gameMetric, moveMetrics, fmt.Errorf("game stopped after %d moves: %w", step, err)
		}
		step++

		mover := e.state.Turn()
		move, searchMetric := e.agents[mover].FindMove(e.state)
		if !e.state.IsLegal(move) {
			panic(fmt.Sprintf("%s agent returned illegal move %s", mover, move))
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       int(mover),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})

		e.state = e.state.Play(move)
		log.Info().Msgf("move %d: %s played %s, explored %d node(s) in %s",
			step, mover, move, searchMetric.Nodes, searchMetric.Duration)
	}

	winner := e.state.Winner()
	gameMetric.Winner = int(winner)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step

	if winner != game.NoColor {
		log.Info().Msgf("%s wins after %d moves", winner, step)
	} else {
		log.Info().Msgf("stopped after %d moves (no winner yet)", step)
	}

	return winner, gameMetric, moveMetrics, nil
}
