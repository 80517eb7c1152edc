package game

import (
	"slices"

	"draughts/utils"
)

// State is an immutable snapshot of a game. Every transition returns a new State whose legal
// moves are already computed, so a State is never observed with a stale move list.
// Copying a State is cheap and never aliases mutable data.
type State struct {
	board    Board
	turn     Color
	moveNo   int
	forced   Position // the piece that must keep capturing, only meaningful if chaining
	chaining bool
	moves    []Move // never mutated after construction
}

// NewGame returns the initial position with black to move.
func NewGame() State {
	return NewState(InitialBoard(), Black, 1)
}

// NewState builds a position from an arbitrary board, e.g. for analysis or tests.
func NewState(board Board, turn Color, moveNo int) State {
	s := State{
		board:  board,
		turn:   turn,
		moveNo: moveNo,
	}
	s.moves = s.calcLegalMoves()
	return s
}

// NewChainState builds a position in the middle of a capture sequence: only the piece on forced
// may move, and only by capturing. Without such a piece it is the same as NewState.
func NewChainState(board Board, turn Color, moveNo int, forced Position) State {
	s := State{
		board:    board,
		turn:     turn,
		moveNo:   moveNo,
		forced:   forced,
		chaining: true,
	}
	if !forced.IsValid() || board.ColorAt(forced) != turn || !s.canCapture(forced) {
		return NewState(board, turn, moveNo)
	}
	s.moves = s.calcLegalMoves()
	return s
}

func (s State) Board() Board { return s.board }
func (s State) Turn() Color  { return s.turn }
func (s State) MoveNo() int  { return s.moveNo }

// Forced returns the square of the piece that must continue a capture sequence.
func (s State) Forced() (Position, bool) {
	return s.forced, s.chaining
}

// LegalMoves returns the moves available to the side to move.
func (s State) LegalMoves() []Move {
	return slices.Clone(s.moves)
}

// NumLegalMoves avoids copying the move list when only its size matters.
func (s State) NumLegalMoves() int {
	return len(s.moves)
}

// IsOver reports whether the side to move has lost, i.e. has no legal moves.
func (s State) IsOver() bool {
	return len(s.moves) == 0
}

// Winner returns the opponent of the side to move once the game is over, NoColor before.
func (s State) Winner() Color {
	if !s.IsOver() {
		return NoColor
	}
	return s.turn.Opponent()
}

func (s State) IsLegal(move Move) bool {
	return utils.FindIndex(s.moves, move) >= 0
}

// Sources returns the distinct squares a legal move can start from, in generation order.
func (s State) Sources() []Position {
	var sources []Position
	for _, move := range s.moves {
		if utils.FindIndex(sources, move.Src) < 0 {
			sources = append(sources, move.Src)
		}
	}
	return sources
}

// Targets returns the squares the piece on src can legally move to.
func (s State) Targets(src Position) []Position {
	var targets []Position
	for _, move := range s.moves {
		if move.Src == src {
			targets = append(targets, move.Tar)
		}
	}
	return targets
}

// Play applies a move and returns the resulting state. A move that is not currently legal
// leaves the state unchanged.
func (s State) Play(move Move) State {
	if !s.IsLegal(move) {
		return s
	}

	next := s
	piece := next.board.At(move.Src)
	next.board.set(move.Tar, piece)
	next.board.set(move.Src, Empty)

	if move.IsCapture() {
		next.board.set(move.Captured(), Empty)

		// The same piece keeps capturing, promotion waits until the sequence ends
		if next.canCapture(move.Tar) {
			next.forced = move.Tar
			next.chaining = true
			next.moves = next.calcLegalMoves()
			return next
		}
	}

	next.board.promote(move.Tar)
	next.forced = Position{}
	next.chaining = false
	return next.changeTurn()
}

// pass hands the move to the opponent without moving a piece.
func (s State) pass() State {
	s.forced = Position{}
	s.chaining = false
	return s.changeTurn()
}

func (s State) changeTurn() State {
	s.turn = s.turn.Opponent()
	s.moveNo++
	s.moves = s.calcLegalMoves()
	return s
}

// Pieces returns the squares occupied by a colour, rank by rank.
func (s State) Pieces(c Color) []Position {
	var pieces []Position
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if s.board[y][x].Color() == c {
				pieces = append(pieces, Position{X: x, Y: y})
			}
		}
	}
	return pieces
}

// CandidateMoves returns every move the piece on pos could make, without applying the
// mandatory capture rule and regardless of whose turn it is.
func (s State) CandidateMoves(pos Position) []Move {
	piece := s.board.At(pos)
	if piece == Empty {
		return nil
	}

	directions := allDirections
	if !piece.IsKing() {
		if piece.Color() == Black {
			directions = blackDirections
		} else {
			directions = whiteDirections
		}
	}

	moves := make([]Move, 0, len(directions))
	for _, d := range directions {
		if move, ok := s.candidateMove(pos, piece.Color(), d); ok {
			moves = append(moves, move)
		}
	}
	return moves
}

// candidateMove returns the move from src in one direction, if any.
func (s State) candidateMove(src Position, owner Color, d direction) (Move, bool) {
	step := src.offset(d.dx, d.dy)
	if !step.IsValid() {
		return Move{}, false
	}
	if s.board.At(step) == Empty {
		return Move{Src: src, Tar: step}, true
	}
	jump := src.offset(2*d.dx, 2*d.dy)
	if jump.IsValid() && s.board.ColorAt(step) != owner && s.board.At(jump) == Empty {
		return Move{Src: src, Tar: jump}, true
	}
	return Move{}, false
}

func (s State) canCapture(pos Position) bool {
	return utils.Any(s.CandidateMoves(pos), Move.IsCapture)
}

func (s State) calcLegalMoves() []Move {
	var moves []Move
	if s.chaining {
		moves = s.CandidateMoves(s.forced)
	} else {
		for _, pos := range s.Pieces(s.turn) {
			moves = append(moves, s.CandidateMoves(pos)...)
		}
	}

	if utils.Any(moves, Move.IsCapture) {
		return utils.Filter(moves, Move.IsCapture)
	}
	return moves
}

func (s State) String() string {
	return s.board.String()
}
