package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes a single move decision.
type SearchMetric struct {
	Goroutines int
	Depth      int
	Duration   time.Duration
	Nodes      int64
	Threshold  int
	Score      int  // best root score, 0 when no search ran
	Candidates int  // moves tied for the best score
	Searched   bool // false for forced and opening moves
}

type MoveMetric struct {
	Step   int
	Player int // game.Color of the mover
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // 0 when the game hit the turn limit
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers the telemetry of one decision at a time. AddNode may be called from
// several goroutines.
type Collector interface {
	Start(goroutines, depth int)
	AddNode()
	Nodes() int64
	SetResult(threshold, score, candidates int)
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	depth      int
	startTime  time.Time
	nodes      atomic.Int64
	threshold  int
	score      int
	candidates int
	searched   bool
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters. The root node counts as the first explored node.
func (m *collector) Start(goroutines, depth int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.depth = depth
	m.nodes.Store(1)
	m.threshold, m.score, m.candidates = 0, 0, 0
	m.searched = false
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) Nodes() int64 {
	return m.nodes.Load()
}

func (m *collector) SetResult(threshold, score, candidates int) {
	m.threshold = threshold
	m.score = score
	m.candidates = candidates
	m.searched = true
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		Depth:      m.depth,
		Duration:   time.Since(m.startTime),
		Nodes:      m.nodes.Load(),
		Threshold:  m.threshold,
		Score:      m.score,
		Candidates: m.candidates,
		Searched:   m.searched,
	}
}
