package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"draughts/communication"
	"draughts/experiments/metrics"
	"draughts/game"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Message)
}

type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient talks to a draughts server; a nil httpClient uses http.DefaultClient.
func NewClient(serverURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serverURL:  serverURL,
		httpClient: httpClient,
	}
}

func (c *Client) URL() string { return c.serverURL }

// FindMove asks the server to search the given state without touching its session.
func (c *Client) FindMove(ctx context.Context, state game.State, difficulty int) (game.Move, metrics.SearchMetric, error) {
	req := communication.FindMoveRequest{
		State:      communication.FromState(state),
		Difficulty: difficulty,
	}
	var resp communication.FindMoveResponse
	if err := c.do(ctx, http.MethodPost, "/findmove", req, &resp); err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("find move: %w", err)
	}
	return resp.Move.Move(), resp.Search.Metric(), nil
}

// State fetches the current state of the session.
func (c *Client) State(ctx context.Context) (game.State, error) {
	return c.state(ctx, http.MethodGet, "/api/state", nil)
}

// Play submits a move for the side to move and returns the resulting state.
func (c *Client) Play(ctx context.Context, move game.Move) (game.State, error) {
	return c.state(ctx, http.MethodPost, "/api/move", communication.FromMove(move))
}

// PlayAI asks the session to let its computer player move. The move arrives asynchronously.
func (c *Client) PlayAI(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/ai", nil, nil); err != nil {
		return fmt.Errorf("play ai: %w", err)
	}
	return nil
}

func (c *Client) Rematch(ctx context.Context) (game.State, error) {
	return c.state(ctx, http.MethodPost, "/api/rematch", nil)
}

func (c *Client) state(ctx context.Context, method, path string, body any) (game.State, error) {
	var dto communication.StateDTO
	if err := c.do(ctx, method, path, body, &dto); err != nil {
		return game.State{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return dto.State()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
