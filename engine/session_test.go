package engine

import (
	"testing"

	"draughts/game"
	"draughts/player"
	"draughts/searcher"

	"github.com/stretchr/testify/require"
)

func mv(sx, sy, tx, ty int) game.Move {
	return game.Move{Src: game.Position{X: sx, Y: sy}, Tar: game.Position{X: tx, Y: ty}}
}

func drain(updates <-chan Update) []Update {
	var all []Update
	for u := range updates {
		all = append(all, u)
	}
	return all
}

func TestSessionPlay(t *testing.T) {
	t.Run("legal move is applied and published", func(t *testing.T) {
		s := NewSession(player.NewHuman("alice"), player.NewHuman("bob"))

		require.NoError(t, s.Play(mv(2, 5, 3, 4)))

		u := <-s.Updates()
		require.Equal(t, mv(2, 5, 3, 4), u.Move)
		require.Equal(t, s.State(), u.State)
		require.Equal(t, game.White, s.State().Turn())
		require.Equal(t, "bob", s.Current().Name())
	})

	t.Run("illegal move is rejected", func(t *testing.T) {
		s := NewSession(player.NewHuman("alice"), player.NewHuman("bob"))
		before := s.State()

		err := s.Play(mv(2, 5, 2, 4))

		require.ErrorIs(t, err, ErrIllegalMove)
		require.Equal(t, before, s.State())
		require.Empty(t, s.Updates())
	})

	t.Run("finished game rejects moves and closes updates", func(t *testing.T) {
		start := game.NewState(game.MustParseBoard(
			"........",
			"........",
			"........",
			"........",
			"...o....",
			"..X.....",
			"........",
			"........",
		), game.Black, 30)
		s := NewSessionFrom(start, player.NewHuman("alice"), player.NewHuman("bob"))

		require.NoError(t, s.Play(mv(2, 5, 4, 3)))

		require.Len(t, drain(s.Updates()), 1)
		require.True(t, s.Done())
		require.ErrorIs(t, s.Play(mv(4, 3, 3, 2)), ErrGameOver)
		require.ErrorIs(t, s.PlayAI(), ErrGameOver)
	})

	t.Run("sources and targets follow the state", func(t *testing.T) {
		s := NewSession(player.NewHuman("alice"), player.NewHuman("bob"))

		require.Equal(t, s.State().Sources(), s.Sources())
		require.Equal(t, []game.Position{{X: 1, Y: 4}, {X: 3, Y: 4}}, s.Targets(game.Position{X: 2, Y: 5}))
	})
}

func TestSessionPlayAI(t *testing.T) {
	t.Run("humans are not searched for", func(t *testing.T) {
		s := NewSession(player.NewHuman("alice"), player.NewComputer("bot", 1))

		require.ErrorIs(t, s.PlayAI(), ErrNotAITurn)
	})

	t.Run("computer move is applied", func(t *testing.T) {
		s := NewSession(player.NewComputer("bot", 1, searcher.WithSeed(1)), player.NewHuman("bob"))

		require.NoError(t, s.PlayAI())
		s.Wait()

		u := <-s.Updates()
		require.True(t, game.NewGame().IsLegal(u.Move))
		require.Equal(t, game.White, s.State().Turn())
	})

	t.Run("deactivated player's move is discarded", func(t *testing.T) {
		bot := player.NewComputer("bot", 1, searcher.WithSeed(1))
		s := NewSession(bot, player.NewHuman("bob"))
		bot.Deactivate()

		require.NoError(t, s.PlayAI())
		s.Wait()

		require.Equal(t, game.NewGame(), s.State())
		require.Empty(t, s.Updates())
	})

	t.Run("stale search result is discarded", func(t *testing.T) {
		bot := player.NewComputer("bot", 1)
		s := NewSession(bot, player.NewHuman("bob"))
		version := s.version
		require.NoError(t, s.Play(mv(2, 5, 3, 4)))

		_, _, more := s.applyAI(bot, mv(0, 5, 1, 4), version)

		require.False(t, more)
		require.Equal(t, game.NewGame().Play(mv(2, 5, 3, 4)), s.State(), "The state moved on before the search ended")
	})

	t.Run("capture sequence is played to its end", func(t *testing.T) {
		start := game.NewState(game.MustParseBoard(
			"........",
			"........",
			"........",
			"....o...",
			"........",
			"..o.....",
			".x.....x",
			"........",
		), game.Black, 20)
		s := NewSessionFrom(start, player.NewComputer("bot", 1, searcher.WithSeed(1)), player.NewHuman("bob"))

		require.NoError(t, s.PlayAI())
		s.Wait()

		updates := drain(s.Updates())
		require.Len(t, updates, 2)
		require.Equal(t, mv(1, 6, 3, 4), updates[0].Move)
		require.Equal(t, mv(3, 4, 5, 2), updates[1].Move)
		require.Equal(t, game.Black, s.State().Winner())
	})
}

func TestSessionRematch(t *testing.T) {
	alice := player.NewHuman("alice")
	bot := player.NewComputer("bot", 2)
	s := NewSession(alice, bot)
	require.NoError(t, s.Play(mv(2, 5, 3, 4)))

	next := s.Rematch()

	require.True(t, s.Done())
	require.False(t, alice.IsActive())
	require.False(t, bot.IsActive())
	require.Equal(t, "bot", next.Player(game.Black).Name(), "Colours should be swapped")
	require.Equal(t, 2, next.Player(game.Black).Difficulty())
	require.Equal(t, "alice", next.Player(game.White).Name())
	require.True(t, next.Player(game.Black).IsActive())
	require.Equal(t, game.NewGame(), next.State())
}
