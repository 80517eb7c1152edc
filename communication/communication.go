package communication

import (
	"errors"
	"fmt"
	"time"

	"draughts/experiments/metrics"
	"draughts/game"
)

// Wire format shared by the HTTP server and client. Colours and pieces travel as their
// numeric values: 1 black, 2 white; 0 empty, 1/2 black/white man, 3/4 black/white king.

var ErrInvalidState = errors.New("invalid state")

type PositionDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type MoveDTO struct {
	Src PositionDTO `json:"src"`
	Tar PositionDTO `json:"tar"`
}

type StateDTO struct {
	Board      [][]int      `json:"board"`
	Turn       int          `json:"turn"`
	MoveNo     int          `json:"move_no"`
	Forced     *PositionDTO `json:"forced,omitempty"`
	Over       bool         `json:"over"`
	Winner     int          `json:"winner"`
	LegalMoves []MoveDTO    `json:"legal_moves"`
}

// SearchDTO is the telemetry of one decision.
type SearchDTO struct {
	Depth      int   `json:"depth"`
	Goroutines int   `json:"goroutines"`
	Nodes      int64 `json:"nodes"`
	DurationMs int64 `json:"duration_ms"`
	Threshold  int   `json:"threshold"`
	Score      int   `json:"score"`
	Candidates int   `json:"candidates"`
	Searched   bool  `json:"searched"`
}

type FindMoveRequest struct {
	State      StateDTO `json:"state"`
	Difficulty int      `json:"difficulty"`
}

type FindMoveResponse struct {
	Move   MoveDTO   `json:"move"`
	Search SearchDTO `json:"search"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func FromPosition(p game.Position) PositionDTO {
	return PositionDTO{X: p.X, Y: p.Y}
}

func (p PositionDTO) Position() game.Position {
	return game.Position{X: p.X, Y: p.Y}
}

func FromMove(m game.Move) MoveDTO {
	return MoveDTO{Src: FromPosition(m.Src), Tar: FromPosition(m.Tar)}
}

func (m MoveDTO) Move() game.Move {
	return game.Move{Src: m.Src.Position(), Tar: m.Tar.Position()}
}

func FromMoves(moves []game.Move) []MoveDTO {
	dtos := make([]MoveDTO, len(moves))
	for i, m := range moves {
		dtos[i] = FromMove(m)
	}
	return dtos
}

func FromState(s game.State) StateDTO {
	board := s.Board()
	rows := make([][]int, game.BoardSize)
	for y := range rows {
		rows[y] = make([]int, game.BoardSize)
		for x := range rows[y] {
			rows[y][x] = int(board[y][x])
		}
	}

	dto := StateDTO{
		Board:      rows,
		Turn:       int(s.Turn()),
		MoveNo:     s.MoveNo(),
		Over:       s.IsOver(),
		Winner:     int(s.Winner()),
		LegalMoves: FromMoves(s.LegalMoves()),
	}
	if forced, chaining := s.Forced(); chaining {
		p := FromPosition(forced)
		dto.Forced = &p
	}
	return dto
}

// State rebuilds the game state. Derived fields (over, winner, legal moves) are recomputed
// rather than trusted.
func (dto StateDTO) State() (game.State, error) {
	if len(dto.Board) != game.BoardSize {
		return game.State{}, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidState, game.BoardSize, len(dto.Board))
	}
	var board game.Board
	for y, row := range dto.Board {
		if len(row) != game.BoardSize {
			return game.State{}, fmt.Errorf("%w: row %d has %d squares", ErrInvalidState, y, len(row))
		}
		for x, v := range row {
			if v < int(game.Empty) || v > int(game.WhiteKing) {
				return game.State{}, fmt.Errorf("%w: square (%d|%d): unknown piece %d", ErrInvalidState, x, y, v)
			}
			board[y][x] = game.Piece(v)
		}
	}

	turn := game.Color(dto.Turn)
	if turn != game.Black && turn != game.White {
		return game.State{}, fmt.Errorf("%w: unknown turn %d", ErrInvalidState, dto.Turn)
	}

	if dto.Forced != nil {
		return game.NewChainState(board, turn, dto.MoveNo, dto.Forced.Position()), nil
	}
	return game.NewState(board, turn, dto.MoveNo), nil
}

func FromSearch(m metrics.SearchMetric) SearchDTO {
	return SearchDTO{
		Depth:      m.Depth,
		Goroutines: m.Goroutines,
		Nodes:      m.Nodes,
		DurationMs: m.Duration.Milliseconds(),
		Threshold:  m.Threshold,
		Score:      m.Score,
		Candidates: m.Candidates,
		Searched:   m.Searched,
	}
}

func (dto SearchDTO) Metric() metrics.SearchMetric {
	return metrics.SearchMetric{
		Goroutines: dto.Goroutines,
		Depth:      dto.Depth,
		Duration:   time.Duration(dto.DurationMs) * time.Millisecond,
		Nodes:      dto.Nodes,
		Threshold:  dto.Threshold,
		Score:      dto.Score,
		Candidates: dto.Candidates,
		Searched:   dto.Searched,
	}
}
