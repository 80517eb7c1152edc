package searcher

import (
	"fmt"
	"time"

	"draughts/experiments/metrics"
	"draughts/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Option func(m *Minimax)

// Minimax is a depth-bounded alpha-beta searcher. Black maximizes and white minimizes at every
// node. A Minimax keeps the telemetry of its last decision and must not be used by several
// goroutines at once; WithGoroutines parallelizes a single decision instead.
type Minimax struct {
	depth      int
	goroutines int
	threshold  int
	evaluate   game.EvaluateFn
	rng        *rand.Rand
	metrics    metrics.Collector
}

// WithGoroutines searches up to n root moves in parallel. Each root move is searched with its
// own window, so the result does not depend on n.
func WithGoroutines(goroutines int) Option {
	return func(m *Minimax) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

// WithSeed makes opening and tie-break choices reproducible.
func WithSeed(seed uint64) Option {
	return func(m *Minimax) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Minimax) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithEvaluationFn(evaluate game.EvaluateFn) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func NewMinimax(depth int, options ...Option) *Minimax {
	m := &Minimax{ // Default values
		depth:      depth,
		goroutines: 1,
		evaluate:   game.Evaluate,
		rng:        rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:    metrics.NewCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.depth <= 0 {
		panic("Must specify a positive search depth")
	}
	return m
}

func (m *Minimax) Depth() int { return m.depth }

// Nodes returns the number of nodes explored by the last decision.
func (m *Minimax) Nodes() int64 { return m.metrics.Nodes() }

// Threshold returns the root evaluation of the last decision, 0 if it was not searched.
func (m *Minimax) Threshold() int { return m.threshold }

func (m *Minimax) FindMove(state game.State) (game.Move, metrics.SearchMetric) {
	m.metrics.Start(m.goroutines, m.depth)
	m.threshold = 0

	moves := state.LegalMoves()
	if len(moves) == 0 {
		panic(fmt.Sprintf("searcher: no legal moves for %s at move %d", state.Turn(), state.MoveNo()))
	}

	if len(moves) == 1 {
		return moves[0], m.metrics.Complete()
	}

	if state.MoveNo() <= OpeningMoves {
		return moves[m.rng.Intn(len(moves))], m.metrics.Complete()
	}

	m.threshold = m.evaluate(state)
	s := &search{
		depth:     m.depth,
		threshold: m.threshold,
		evaluate:  m.evaluate,
		metrics:   m.metrics,
	}
	scores := s.scoreMoves(state, moves, m.goroutines)
	best, tied := bestMoves(state.Turn(), moves, scores)
	m.metrics.SetResult(m.threshold, best, len(tied))

	move := tied[m.rng.Intn(len(tied))]
	metric := m.metrics.Complete()
	log.Debug().Msgf("%s chose %s with score %d among %d tied move(s), explored %d node(s) in %s",
		state.Turn(), move, best, len(tied), metric.Nodes, metric.Duration)
	return move, metric
}

// search holds what stays fixed during one decision, so root moves can be searched concurrently.
type search struct {
	depth     int
	threshold int
	evaluate  game.EvaluateFn
	metrics   metrics.Collector
}

// scoreMoves searches every root move independently with a full window.
func (s *search) scoreMoves(state game.State, moves []game.Move, goroutines int) []int {
	scores := make([]int, len(moves))

	var g errgroup.Group
	g.SetLimit(goroutines)
	for i, move := range moves {
		i, move := i, move
		g.Go(func() error {
			scores[i] = s.minimax(0, state.Play(move), -Infinity, Infinity)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return scores
}

func (s *search) minimax(depth int, state game.State, alpha, beta int) int {
	s.metrics.AddNode()

	player := state.Turn()
	best := worst(player)

	// Losing later is better than losing now, winning sooner better than winning later
	if state.IsOver() {
		return best + player.Sign()*depth
	}

	if depth >= s.depth {
		return s.evaluate(state)
	}

	if depth > 0 && depth%ThresholdInterval == 0 {
		score := s.evaluate(state)
		if score < s.threshold-ThresholdRange || score > s.threshold+ThresholdRange {
			return score
		}
	}

	for _, move := range state.LegalMoves() {
		score := s.minimax(depth+1, state.Play(move), alpha, beta)
		if player == game.Black {
			best = max(best, score)
			alpha = max(alpha, score)
		} else {
			best = min(best, score)
			beta = min(beta, score)
		}

		if beta <= alpha {
			break
		}
	}

	return best
}

// bestMoves returns the best score for player and every move reaching exactly that score,
// in the order of moves.
func bestMoves(player game.Color, moves []game.Move, scores []int) (int, []game.Move) {
	best := worst(player)
	var tied []game.Move
	for i, score := range scores {
		switch {
		case score == best:
			tied = append(tied, moves[i])
		case isBetter(player, score, best):
			best = score
			tied = []game.Move{moves[i]}
		}
	}
	return best, tied
}

func worst(player game.Color) int {
	if player == game.Black {
		return -Infinity
	}
	return Infinity
}

func isBetter(player game.Color, score, than int) bool {
	if player == game.Black {
		return score > than
	}
	return score < than
}
