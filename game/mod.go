package game

// Color identifies a side. Black moves first and towards rank 0.
type Color int

const (
	NoColor Color = iota
	Black
	White
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

// Sign is +1 for black and -1 for white; scores are always from black's perspective.
func (c Color) Sign() int {
	switch c {
	case Black:
		return 1
	case White:
		return -1
	default:
		return 0
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "none"
	}
}

// Piece is the content of a single square.
type Piece int8

const (
	Empty Piece = iota
	BlackMan
	WhiteMan
	BlackKing
	WhiteKing
)

func (p Piece) Color() Color {
	switch p {
	case BlackMan, BlackKing:
		return Black
	case WhiteMan, WhiteKing:
		return White
	default:
		return NoColor
	}
}

func (p Piece) IsKing() bool {
	return p == BlackKing || p == WhiteKing
}

// promoted returns the king of the same colour; kings and empty squares are unchanged.
func (p Piece) promoted() Piece {
	if p == BlackMan || p == WhiteMan {
		return p + 2
	}
	return p
}

// EvaluateFn scores a state from black's perspective: positive favours black.
type EvaluateFn func(State) int
