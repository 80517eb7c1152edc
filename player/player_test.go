package player

import (
	"testing"

	"draughts/game"
	"draughts/searcher"

	"github.com/stretchr/testify/require"
)

func TestNewPlayer(t *testing.T) {
	t.Run("humans have no difficulty", func(t *testing.T) {
		p := NewHuman("alice")

		require.True(t, p.IsHuman())
		require.False(t, p.IsAI())
		require.Equal(t, 0, p.Difficulty())
		require.True(t, p.IsActive())
		require.Equal(t, int64(0), p.ExploredNodes())
		require.Equal(t, "alice (human)", p.String())
	})

	t.Run("computer difficulty is clamped", func(t *testing.T) {
		require.Equal(t, 1, NewComputer("low", -3).Difficulty())
		require.Equal(t, 1, NewComputer("zero", 0).Difficulty(), "A computer is never a human")
		require.Equal(t, 3, NewComputer("mid", 3).Difficulty())
		require.Equal(t, 4, NewComputer("high", 9).Difficulty())
		require.True(t, NewComputer("mid", 3).IsAI())
	})
}

func TestDeactivate(t *testing.T) {
	p := NewComputer("bot", 1)
	p.Deactivate()

	require.False(t, p.IsActive())
	require.True(t, p.Copy().IsActive(), "Copies start active")
}

func TestCopy(t *testing.T) {
	original := NewComputer("bot", 2, searcher.WithSeed(5))
	clone := original.Copy()

	require.NotSame(t, original, clone)
	require.Equal(t, original.Name(), clone.Name())
	require.Equal(t, original.Difficulty(), clone.Difficulty())

	state := game.NewState(game.InitialBoard(), game.Black, 4)
	first, _ := original.FindMove(state)
	second, _ := clone.FindMove(state)
	require.Equal(t, first, second, "Copies should share the search options")

	human := NewHuman("alice").Copy()
	require.True(t, human.IsHuman())
}

func TestFindMove(t *testing.T) {
	t.Run("humans cannot search", func(t *testing.T) {
		require.Panics(t, func() { NewHuman("alice").FindMove(game.NewGame()) })
	})

	t.Run("computer returns a legal move and records its telemetry", func(t *testing.T) {
		p := NewComputer("bot", 1, searcher.WithSeed(1))
		state := game.NewState(game.InitialBoard(), game.Black, 4)

		move, metric := p.FindMove(state)

		require.True(t, state.IsLegal(move))
		require.Equal(t, metric.Nodes, p.ExploredNodes())
		require.Equal(t, game.Evaluate(state), p.Threshold())
		require.Equal(t, 3, metric.Depth)
	})
}
