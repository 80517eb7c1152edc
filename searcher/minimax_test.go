package searcher

import (
	"testing"

	"draughts/experiments/metrics"
	"draughts/game"

	"github.com/stretchr/testify/require"
)

func mv(sx, sy, tx, ty int) game.Move {
	return game.Move{Src: game.Position{X: sx, Y: sy}, Tar: game.Position{X: tx, Y: ty}}
}

func TestDepthForDifficulty(t *testing.T) {
	require.Equal(t, 0, DepthForDifficulty(0), "Humans never search")
	require.Equal(t, 3, DepthForDifficulty(1))
	require.Equal(t, 6, DepthForDifficulty(2))
	require.Equal(t, 10, DepthForDifficulty(3))
	require.Equal(t, 14, DepthForDifficulty(4))
}

func TestFindMove(t *testing.T) {
	t.Run("single legal move is returned without search", func(t *testing.T) {
		state := game.NewState(game.MustParseBoard(
			"........",
			"........",
			"........",
			"........",
			"...o....",
			"..x...x.",
			"........",
			"........",
		), game.Black, 10)
		m := NewMinimax(3, WithSeed(1))

		move, metric := m.FindMove(state)

		require.Equal(t, mv(2, 5, 4, 3), move)
		require.Equal(t, int64(1), metric.Nodes, "Only the root should be counted")
		require.False(t, metric.Searched)
	})

	t.Run("terminal state panics", func(t *testing.T) {
		state := game.NewState(game.MustParseBoard(
			"........",
			".o......",
			"........",
			"........",
			"........",
			"........",
			"........",
			"........",
		), game.Black, 10)
		m := NewMinimax(3)

		require.Panics(t, func() { m.FindMove(state) })
	})

	t.Run("opening moves are random", func(t *testing.T) {
		state := game.NewGame()
		seen := map[game.Move]bool{}

		for seed := uint64(1); seed <= 30; seed++ {
			move, metric := NewMinimax(3, WithSeed(seed)).FindMove(state)
			require.True(t, state.IsLegal(move))
			require.False(t, metric.Searched, "Opening moves should not be searched")
			seen[move] = true
		}

		require.Greater(t, len(seen), 1, "Different seeds should be able to pick different openings")
	})

	t.Run("same seed gives the same move", func(t *testing.T) {
		state := game.NewState(game.InitialBoard(), game.Black, 4)

		first, firstMetric := NewMinimax(3, WithSeed(42)).FindMove(state)
		second, secondMetric := NewMinimax(3, WithSeed(42)).FindMove(state)

		require.Equal(t, first, second)
		require.Equal(t, firstMetric.Nodes, secondMetric.Nodes)
		require.True(t, firstMetric.Searched)
	})

	t.Run("parallel root search matches sequential search", func(t *testing.T) {
		state := game.NewGame().
			Play(mv(2, 5, 3, 4)).
			Play(mv(1, 2, 0, 3))
		state = game.NewState(state.Board(), state.Turn(), 8)

		sequential, seqMetric := NewMinimax(3, WithSeed(7)).FindMove(state)
		parallel, parMetric := NewMinimax(3, WithSeed(7), WithGoroutines(4)).FindMove(state)

		require.Equal(t, sequential, parallel)
		require.Equal(t, seqMetric.Score, parMetric.Score)
		require.Equal(t, seqMetric.Candidates, parMetric.Candidates)
		require.Equal(t, seqMetric.Nodes, parMetric.Nodes, "Node counts should not depend on parallelism")
		require.Equal(t, 4, parMetric.Goroutines)
	})

	t.Run("black avoids losing its last piece", func(t *testing.T) {
		state := game.NewState(game.MustParseBoard(
			"........",
			"........",
			"........",
			"......o.",
			"........",
			"....x...",
			"........",
			"........",
		), game.Black, 10)
		m := NewMinimax(3, WithSeed(1))

		move, metric := m.FindMove(state)

		require.Equal(t, mv(4, 5, 3, 4), move, "Moving next to the white man loses the game")
		require.Equal(t, 1, metric.Candidates)
		require.Equal(t, game.Evaluate(state), m.Threshold(), "Threshold should be the root evaluation")
	})

	t.Run("white avoids losing its last piece", func(t *testing.T) {
		state := game.NewState(game.MustParseBoard(
			"........",
			"........",
			"...o....",
			"........",
			".x......",
			"........",
			"........",
			"........",
		), game.White, 10)

		move := SelectMove(state, 1, WithSeed(1))

		require.Equal(t, mv(3, 2, 4, 3), move)
	})

	t.Run("node counter resets between decisions", func(t *testing.T) {
		state := game.NewState(game.InitialBoard(), game.Black, 4)
		m := NewMinimax(3, WithSeed(3))

		_, first := m.FindMove(state)
		_, second := m.FindMove(state)

		require.Greater(t, first.Nodes, int64(1))
		require.Equal(t, first.Nodes, second.Nodes)
		require.Equal(t, second.Nodes, m.Nodes())
	})

	t.Run("custom evaluation function sets the threshold", func(t *testing.T) {
		state := game.NewState(game.InitialBoard(), game.Black, 4)
		var evaluate game.EvaluateFn = func(game.State) int { return 7 }
		m := NewMinimax(1, WithSeed(1), WithEvaluationFn(evaluate))

		_, metric := m.FindMove(state)

		require.Equal(t, 7, m.Threshold())
		require.Equal(t, 7, metric.Threshold)
		require.Equal(t, 7, metric.Score, "Every leaf scores the same")
	})

	t.Run("threshold resets when the decision is not searched", func(t *testing.T) {
		m := NewMinimax(3, WithSeed(5))
		_, searched := m.FindMove(game.NewState(game.InitialBoard(), game.Black, 4))
		require.True(t, searched.Searched)
		require.Equal(t, game.Evaluate(game.NewState(game.InitialBoard(), game.Black, 4)), m.Threshold())

		_, opening := m.FindMove(game.NewGame())

		require.False(t, opening.Searched)
		require.Equal(t, 0, m.Threshold(), "An opening move has no root evaluation")
		require.Equal(t, int64(1), m.Nodes())
	})
}

func TestSelectMoveDifficulty(t *testing.T) {
	state := game.NewGame()

	require.Panics(t, func() { SelectMove(state, 0) }, "Humans never search")
	require.Panics(t, func() { SelectMove(state, 5) })
	require.NotPanics(t, func() { SelectMove(state, 4) }, "Opening moves need no search")
}

func TestMinimax(t *testing.T) {
	newSearch := func(depth, threshold int, evaluate game.EvaluateFn) *search {
		return &search{depth: depth, threshold: threshold, evaluate: evaluate, metrics: metrics.NewCollector()}
	}
	lost := func(turn game.Color) game.State {
		return game.NewState(game.MustParseBoard(
			"........",
			"........",
			"........",
			"........",
			"........",
			"........",
			"........",
			"........",
		), turn, 10)
	}

	t.Run("terminal scores prefer slower losses", func(t *testing.T) {
		s := newSearch(10, 0, game.Evaluate)

		require.Equal(t, -Infinity+2, s.minimax(2, lost(game.Black), -Infinity, Infinity))
		require.Equal(t, Infinity-2, s.minimax(2, lost(game.White), -Infinity, Infinity))
		require.Greater(t, s.minimax(5, lost(game.Black), -Infinity, Infinity),
			s.minimax(1, lost(game.Black), -Infinity, Infinity), "A later loss should score higher for black")
	})

	t.Run("depth limit returns the evaluation", func(t *testing.T) {
		s := newSearch(3, 0, func(game.State) int { return 42 })
		s.metrics.Start(1, 3)

		require.Equal(t, 42, s.minimax(3, game.NewGame(), -Infinity, Infinity))
		require.Equal(t, int64(2), s.metrics.Nodes())
	})

	t.Run("threshold window stops expansion", func(t *testing.T) {
		s := newSearch(10, 0, func(game.State) int { return ThresholdRange + 1 })
		s.metrics.Start(1, 10)

		require.Equal(t, ThresholdRange+1, s.minimax(4, game.NewGame(), -Infinity, Infinity))
		require.Equal(t, int64(2), s.metrics.Nodes(), "No child should be visited")
	})

	t.Run("scores inside the window keep searching", func(t *testing.T) {
		s := newSearch(5, 0, func(game.State) int { return ThresholdRange })
		s.metrics.Start(1, 5)

		require.Equal(t, ThresholdRange, s.minimax(4, game.NewGame(), -Infinity, Infinity))
		require.Greater(t, s.metrics.Nodes(), int64(2), "Children should be visited")
	})
}

func TestBestMoves(t *testing.T) {
	moves := []game.Move{mv(0, 5, 1, 4), mv(2, 5, 1, 4), mv(2, 5, 3, 4), mv(4, 5, 3, 4)}
	scores := []int{3, 5, 5, 1}

	best, tied := bestMoves(game.Black, moves, scores)
	require.Equal(t, 5, best)
	require.Equal(t, []game.Move{moves[1], moves[2]}, tied, "Exact ties should be kept in move order")

	best, tied = bestMoves(game.White, moves, scores)
	require.Equal(t, 1, best)
	require.Equal(t, []game.Move{moves[3]}, tied)

	best, tied = bestMoves(game.Black, moves[:2], []int{-Infinity, -Infinity})
	require.Equal(t, -Infinity, best)
	require.Len(t, tied, 2, "Forced losses are still candidates")
}
