package game

const (
	tempoBonus   = 3
	pieceBase    = 5
	kingValue    = 16
	captureBonus = 7
)

// Evaluate statically scores a state from black's perspective. It combines tempo, material
// weighted by advancement, support and mobility, pending captures for both sides and board
// cover. The argument is not modified, so it is safe to call concurrently on any states.
func Evaluate(s State) int {
	score := s.turn.Sign() * tempoBonus

	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if pos := (Position{X: x, Y: y}); pos.IsDark() {
				score += pieceScore(s, pos)
			}
		}
	}

	score += captureThreat(s)
	score += captureThreat(s.pass())
	score += coverScore(s.board)

	return score
}

// pieceScore values a single piece: kings are fixed, men gain value as they approach promotion.
// Friendly neighbours and raw mobility add one point each.
func pieceScore(s State, pos Position) int {
	piece := s.board.At(pos)
	owner := piece.Color()
	if owner == NoColor {
		return 0
	}

	var value int
	switch {
	case piece.IsKing():
		value = kingValue
	case owner == Black:
		value = 2 * (BoardSize - pos.Y)
	default:
		value = 2 * (1 + pos.Y)
	}

	for _, n := range pos.neighbours() {
		if s.board.ColorAt(n) == owner {
			value++
		}
	}
	value += len(s.CandidateMoves(pos))

	return owner.Sign() * (pieceBase + value)
}

// captureThreat rewards the side to move for each capture it has available.
func captureThreat(s State) int {
	if len(s.moves) == 0 || !s.moves[0].IsCapture() {
		return 0
	}
	return len(s.moves) * s.turn.Sign() * captureBonus
}

// coverScore awards a point per dark square to the side whose nearest pieces dominate it.
func coverScore(b Board) int {
	score := 0
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if pos := (Position{X: x, Y: y}); pos.IsDark() {
				score += cover(b, pos).Sign()
			}
		}
	}
	return score
}

// cover widens rings of diagonal neighbours around src (src itself excluded) until a ring
// holds at least one piece, then reports which colour has more pieces in that ring.
// It returns NoColor on a tie or once every reachable square has been visited.
func cover(b Board, src Position) Color {
	var visited [BoardSize][BoardSize]bool
	visited[src.Y][src.X] = true
	ring := []Position{src}

	for len(ring) > 0 {
		var next []Position
		black, white := 0, 0
		for _, pos := range ring {
			for _, n := range pos.neighbours() {
				if visited[n.Y][n.X] {
					continue
				}
				visited[n.Y][n.X] = true
				next = append(next, n)
				switch b.ColorAt(n) {
				case Black:
					black++
				case White:
					white++
				}
			}
		}

		switch {
		case black > white:
			return Black
		case white > black:
			return White
		case black > 0:
			return NoColor
		}
		ring = next
	}
	return NoColor
}
