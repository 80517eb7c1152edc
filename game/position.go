package game

import "fmt"

const BoardSize = 8

// Position is a square on the board, X is the file and Y the rank.
// Positions off the board are valid values; IsValid reports whether one is on the board.
type Position struct {
	X int
	Y int
}

func (p Position) IsValid() bool {
	return 0 <= p.X && p.X < BoardSize && 0 <= p.Y && p.Y < BoardSize
}

// IsDark reports whether the square is a playable one.
func (p Position) IsDark() bool {
	return (p.X+p.Y)%2 == 1
}

func (p Position) offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// neighbours returns the on-board diagonal neighbours of p.
func (p Position) neighbours() []Position {
	neighbours := make([]Position, 0, 4)
	for _, d := range allDirections {
		if n := p.offset(d.dx, d.dy); n.IsValid() {
			neighbours = append(neighbours, n)
		}
	}
	return neighbours
}

func (p Position) String() string {
	return fmt.Sprintf("(%d|%d)", p.X, p.Y)
}
