package game

// Move represents a single hop of a piece from Src to Tar.
type Move struct {
	Src Position
	Tar Position
}

// IsCapture reports whether the move jumps over a piece.
func (m Move) IsCapture() bool {
	return abs(m.Src.X-m.Tar.X) == 2 && abs(m.Src.Y-m.Tar.Y) == 2
}

// Captured returns the square jumped over by a capture.
// Calling it on a non-capturing move is a programming error.
func (m Move) Captured() Position {
	if !m.IsCapture() {
		panic("game: captured square requested for non-capturing move " + m.String())
	}
	return Position{X: max(m.Src.X, m.Tar.X) - 1, Y: max(m.Src.Y, m.Tar.Y) - 1}
}

func (m Move) String() string {
	return m.Src.String() + " --> " + m.Tar.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
