package engine

import (
	"errors"
	"fmt"
	"sync"

	"draughts/game"
	"draughts/player"

	"github.com/rs/zerolog/log"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrNotAITurn   = errors.New("side to move is not a computer")
)

// updateBuffer bounds the updates a slow consumer may lag behind; further updates are dropped.
const updateBuffer = 64

type Update struct {
	Move  game.Move
	State game.State
}

// Session is an interactive game between two players, human or computer. All methods are safe
// for concurrent use.
type Session struct {
	mu      sync.Mutex
	state   game.State
	version int // bumped on every applied move
	players map[game.Color]*player.Player
	updates chan Update
	done    bool // the game is over or the session was closed
	pending sync.WaitGroup
}

func NewSession(black, white *player.Player) *Session {
	return NewSessionFrom(game.NewGame(), black, white)
}

// NewSessionFrom starts a session from an arbitrary position.
func NewSessionFrom(state game.State, black, white *player.Player) *Session {
	if black == nil || white == nil {
		panic("need a player for both colours")
	}
	s := &Session{
		state:   state,
		players: map[game.Color]*player.Player{game.Black: black, game.White: white},
		updates: make(chan Update, updateBuffer),
	}
	if state.IsOver() {
		s.finish()
	}
	return s
}

// State returns a snapshot of the current position.
func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Player(c game.Color) *player.Player {
	return s.players[c]
}

// Current returns the player to move.
func (s *Session) Current() *player.Player {
	return s.players[s.State().Turn()]
}

func (s *Session) Sources() []game.Position {
	return s.State().Sources()
}

func (s *Session) Targets(src game.Position) []game.Position {
	return s.State().Targets(src)
}

// Updates delivers every applied move with the resulting state. The channel is closed once
// the game is over or the session is closed.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Play applies a move chosen outside the engine, typically by a human.
func (s *Session) Play(move game.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return ErrGameOver
	}
	if !s.state.IsLegal(move) {
		return fmt.Errorf("%w: %s for %s", ErrIllegalMove, move, s.state.Turn())
	}
	s.apply(move)
	return nil
}

// PlayAI starts a search for the computer player to move and returns immediately. The result is
// applied only if that player is still active and nobody moved in the meantime. A capture
// sequence is played to its end.
func (s *Session) PlayAI() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return ErrGameOver
	}
	p := s.players[s.state.Turn()]
	if !p.IsAI() {
		return fmt.Errorf("%w: %s", ErrNotAITurn, p)
	}

	snapshot, version := s.state, s.version
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		more := true
		for more {
			move, metric := p.FindMove(snapshot)
			log.Info().Msgf("%s explored %d node(s) in %s", p, metric.Nodes, metric.Duration)
			snapshot, version, more = s.applyAI(p, move, version)
		}
	}()
	return nil
}

// applyAI applies a searched move and reports whether the same player has to continue.
func (s *Session) applyAI(p *player.Player, move game.Move, version int) (game.State, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done || !p.IsActive() || s.version != version {
		log.Debug().Msgf("discarding %s from %s", move, p)
		return s.state, s.version, false
	}
	mover := s.state.Turn()
	s.apply(move)
	return s.state, s.version, !s.done && s.state.Turn() == mover
}

// Wait blocks until every search started by PlayAI has finished.
func (s *Session) Wait() {
	s.pending.Wait()
}

// Rematch ends this session and starts a new one with fresh copies of the players and the
// colours swapped.
func (s *Session) Rematch() *Session {
	black, white := s.players[game.Black], s.players[game.White]
	s.Close()
	return NewSession(white.Copy(), black.Copy())
}

// Close deactivates both players so pending searches are discarded, and ends the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.Deactivate()
	}
	s.finish()
}

// Done reports whether the session accepts no more moves.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// apply must be called with mu held.
func (s *Session) apply(move game.Move) {
	mover := s.state.Turn()
	s.state = s.state.Play(move)
	s.version++
	log.Info().Msgf("%s played %s", mover, move)

	select {
	case s.updates <- Update{Move: move, State: s.state}:
	default:
		log.Warn().Msgf("update for %s dropped, consumer too slow", move)
	}

	if s.state.IsOver() {
		log.Info().Msgf("game over, %s wins", s.state.Winner())
		s.finish()
	}
}

// finish must be called with mu held.
func (s *Session) finish() {
	if !s.done {
		s.done = true
		close(s.updates)
	}
}
