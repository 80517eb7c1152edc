package game

import (
	"fmt"
	"strings"
)

// Board is indexed [Y][X].
type Board [BoardSize][BoardSize]Piece

type direction struct {
	dx, dy int
}

var (
	allDirections   = []direction{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	blackDirections = allDirections[:2]
	whiteDirections = allDirections[2:]
)

// InitialBoard returns the starting layout: white men on the dark squares of rows 0-2,
// black men on the dark squares of rows 5-7.
func InitialBoard() Board {
	var b Board
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			pos := Position{X: x, Y: y}
			if !pos.IsDark() {
				continue
			}
			switch {
			case y <= 2:
				b[y][x] = WhiteMan
			case y >= 5:
				b[y][x] = BlackMan
			}
		}
	}
	return b
}

// At returns the piece on a square. Asking for a square off the board is a programming error.
func (b Board) At(pos Position) Piece {
	if !pos.IsValid() {
		panic("game: no square at " + pos.String())
	}
	return b[pos.Y][pos.X]
}

func (b *Board) set(pos Position, piece Piece) {
	if !pos.IsValid() {
		panic("game: cannot place a piece at " + pos.String())
	}
	b[pos.Y][pos.X] = piece
}

// promote crowns a man standing on either back rank. A man only reaches the far rank, so the
// rank alone decides.
func (b *Board) promote(pos Position) {
	if pos.Y != 0 && pos.Y != BoardSize-1 {
		return
	}
	b.set(pos, b.At(pos).promoted())
}

// ColorAt returns the owner of the piece on a square, NoColor when empty.
func (b Board) ColorAt(pos Position) Color {
	return b.At(pos).Color()
}

// Count returns the number of pieces owned by a colour.
func (b Board) Count(c Color) int {
	n := 0
	for y := range b {
		for x := range b[y] {
			if b[y][x].Color() == c {
				n++
			}
		}
	}
	return n
}

var pieceSymbols = map[Piece]byte{
	Empty:     '.',
	BlackMan:  'x',
	WhiteMan:  'o',
	BlackKing: 'X',
	WhiteKing: 'O',
}

func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("#--------#")
	for y := 0; y < BoardSize; y++ {
		sb.WriteString("\n|")
		for x := 0; x < BoardSize; x++ {
			sb.WriteByte(pieceSymbols[b[y][x]])
		}
		sb.WriteString("|")
	}
	sb.WriteString("\n#--------#")
	return sb.String()
}

// ParseBoard builds a board from eight rows of eight symbols, rank 0 first.
// Symbols: '.' or '#' empty, 'x' black man, 'o' white man, 'X' black king, 'O' white king.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != BoardSize {
		return b, fmt.Errorf("parse board: expected %d rows, got %d", BoardSize, len(rows))
	}
	for y, row := range rows {
		if len(row) != BoardSize {
			return b, fmt.Errorf("parse board: row %d has %d squares", y, len(row))
		}
		for x := 0; x < BoardSize; x++ {
			piece, err := parsePiece(row[x])
			if err != nil {
				return b, fmt.Errorf("parse board: square %s: %w", Position{X: x, Y: y}, err)
			}
			b[y][x] = piece
		}
	}
	return b, nil
}

// MustParseBoard is like ParseBoard but panics on malformed input.
func MustParseBoard(rows ...string) Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

func parsePiece(symbol byte) (Piece, error) {
	if symbol == '#' {
		return Empty, nil
	}
	for piece, s := range pieceSymbols {
		if s == symbol {
			return piece, nil
		}
	}
	return Empty, fmt.Errorf("unknown symbol %q", symbol)
}
