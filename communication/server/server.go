package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"draughts/communication"
	"draughts/engine"
	"draughts/game"
	"draughts/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// updateDTO is the payload of "state" websocket messages.
type updateDTO struct {
	Move  *communication.MoveDTO `json:"move,omitempty"`
	State communication.StateDTO `json:"state"`
}

// Server exposes a session over HTTP and websockets, plus a stateless search endpoint.
type Server struct {
	mu         sync.Mutex
	session    *engine.Session
	hub        *Hub
	goroutines int
	done       chan struct{}
	closeOnce  sync.Once
}

func NewServer(session *engine.Session, goroutines int) *Server {
	s := &Server{
		session:    session,
		hub:        NewHub(),
		goroutines: max(1, goroutines),
		done:       make(chan struct{}),
	}
	go s.hub.Run(s.done)
	s.follow(session)
	return s
}

func (s *Server) Session() *engine.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Server) Hub() *Hub { return s.hub }

// Close stops the hub and ends the current session. Rematches are refused afterwards.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.Session().Close()
	})
}

// follow broadcasts the updates of a session until it ends.
func (s *Server) follow(session *engine.Session) {
	go func() {
		for u := range session.Updates() {
			move := communication.FromMove(u.Move)
			s.hub.Broadcast("state", updateDTO{Move: &move, State: communication.FromState(u.State)})
		}
	}()
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/state", s.handleState)
	r.Get("/api/moves", s.handleMoves)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/ai", s.handleAI)
	r.Post("/api/rematch", s.handleRematch)
	r.Post("/findmove", s.handleFindMove)
	r.Get("/ws", s.serveWS)
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Info().Msgf("server listening on %s", addr)
	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msgf("shutdown requested: %v", ctx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = fmt.Errorf("serve %s: %w", addr, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = server.Close()
	}
	s.Close()
	return runErr
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, communication.FromState(s.Session().State()))
}

// handleMoves lists the squares a move can start from, or with ?x=&y= the targets of that piece.
func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	state := s.Session().State()
	query := r.URL.Query()
	if !query.Has("x") && !query.Has("y") {
		writeJSON(w, http.StatusOK, positions(state.Sources()))
		return
	}

	x, errX := strconv.Atoi(query.Get("x"))
	y, errY := strconv.Atoi(query.Get("y"))
	src := game.Position{X: x, Y: y}
	if errX != nil || errY != nil || !src.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid square")
		return
	}
	writeJSON(w, http.StatusOK, positions(state.Targets(src)))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var dto communication.MoveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	session := s.Session()
	if err := session.Play(dto.Move()); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.FromState(session.State()))
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	session := s.Session()
	if err := session.PlayAI(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, communication.FromState(session.State()))
}

func (s *Server) handleRematch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	default:
	}
	s.session = s.session.Rematch()
	session := s.session
	s.mu.Unlock()

	s.follow(session)
	state := communication.FromState(session.State())
	s.hub.Broadcast("reset", updateDTO{State: state})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var req communication.FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Difficulty < searcher.MinDifficulty || req.Difficulty > searcher.MaxDifficulty {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("difficulty must be in [%d, %d]", searcher.MinDifficulty, searcher.MaxDifficulty))
		return
	}
	state, err := req.State.State()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if state.IsOver() {
		writeError(w, http.StatusUnprocessableEntity, "no legal moves")
		return
	}

	minimax := searcher.NewMinimax(searcher.DepthForDifficulty(req.Difficulty), searcher.WithGoroutines(s.goroutines))
	move, metric := minimax.FindMove(state)
	log.Info().Msgf("found %s for %s, explored %d node(s) in %s", move, state.Turn(), metric.Nodes, metric.Duration)

	writeJSON(w, http.StatusOK, communication.FindMoveResponse{
		Move:   communication.FromMove(move),
		Search: communication.FromSearch(metric),
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &wsClient{send: make(chan []byte, 16)}
	s.hub.register(client)
	s.sendState(client)

	go func() {
		defer conn.Close()
		if err := writeWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_state":
			s.sendState(client)
		}
	}
}

func (s *Server) sendState(c *wsClient) {
	state := communication.FromState(s.Session().State())
	c.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(updateDTO{State: state})})
}

func positions(ps []game.Position) []communication.PositionDTO {
	dtos := make([]communication.PositionDTO, len(ps))
	for i, p := range ps {
		dtos[i] = communication.FromPosition(p)
	}
	return dtos
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrIllegalMove):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, engine.ErrGameOver), errors.Is(err, engine.ErrNotAITurn):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Msgf("%s %s -> %d in %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, communication.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
