package searcher

import "math"

// Hyperparameters for minimax

// Infinity bounds every score; terminal nodes score Infinity adjusted by their depth.
const Infinity = math.MaxInt

// ThresholdRange is the half-width of the window around the root evaluation. Every
// ThresholdInterval plies a node evaluating outside the window is not expanded further.
const ThresholdRange = 15
const ThresholdInterval = 4

// OpeningMoves are played at random to vary the games.
const OpeningMoves = 3

const (
	MinDifficulty = 1
	MaxDifficulty = 4
)

var searchDepths = map[int]int{
	1: 3,
	2: 6,
	3: 10,
	4: 14,
}

// DepthForDifficulty returns the search depth in plies, 0 for anything but 1-4 (humans).
func DepthForDifficulty(difficulty int) int {
	return searchDepths[difficulty]
}
