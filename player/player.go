package player

import (
	"fmt"
	"sync/atomic"

	"draughts/experiments/metrics"
	"draughts/game"
	"draughts/searcher"
)

// Player represents a seat at the board, either a human or a computer opponent.
type Player struct {
	name       string
	difficulty int // 0 for humans, 1-4 for computers
	active     atomic.Bool
	options    []searcher.Option
	minimax    *searcher.Minimax
}

// NewHuman creates a player whose moves come from outside the engine.
func NewHuman(name string) *Player {
	p := &Player{name: name}
	p.active.Store(true)
	return p
}

// NewComputer creates a searching player. The difficulty is clamped into 1-4.
func NewComputer(name string, difficulty int, options ...searcher.Option) *Player {
	difficulty = max(searcher.MinDifficulty, min(searcher.MaxDifficulty, difficulty))
	p := &Player{
		name:       name,
		difficulty: difficulty,
		options:    options,
		minimax:    searcher.NewMinimax(searcher.DepthForDifficulty(difficulty), options...),
	}
	p.active.Store(true)
	return p
}

// Copy returns a fresh active player with the same settings, e.g. for a rematch.
func (p *Player) Copy() *Player {
	if p.IsHuman() {
		return NewHuman(p.name)
	}
	return NewComputer(p.name, p.difficulty, p.options...)
}

func (p *Player) Name() string    { return p.name }
func (p *Player) Difficulty() int { return p.difficulty }
func (p *Player) IsHuman() bool   { return p.difficulty == 0 }
func (p *Player) IsAI() bool      { return !p.IsHuman() }

func (p *Player) IsActive() bool { return p.active.Load() }

// Deactivate marks the player as gone. A pending search still finishes, but its move is dropped.
func (p *Player) Deactivate() { p.active.Store(false) }

// ExploredNodes returns the node count of the last decision.
func (p *Player) ExploredNodes() int64 {
	if p.minimax == nil {
		return 0
	}
	return p.minimax.Nodes()
}

func (p *Player) Threshold() int {
	if p.minimax == nil {
		return 0
	}
	return p.minimax.Threshold()
}

// FindMove searches for the move of a computer player.
func (p *Player) FindMove(state game.State) (game.Move, metrics.SearchMetric) {
	if p.IsHuman() {
		panic(fmt.Sprintf("player: %s is human and cannot search", p.name))
	}
	return p.minimax.FindMove(state)
}

func (p *Player) String() string {
	if p.IsHuman() {
		return fmt.Sprintf("%s (human)", p.name)
	}
	return fmt.Sprintf("%s (level %d)", p.name, p.difficulty)
}
