package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/session"
)

// questionRunner is the orchestrator surface the server needs.
type questionRunner interface {
	Run(ctx context.Context, question string) (*model.RunResult, error)
}

type queryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type queryResponse struct {
	Answer    string                   `json:"answer"`
	SessionID string                   `json:"session_id"`
	History   []model.OrchestratorStep `json:"history"`
}

// newRouter builds the HTTP API over the orchestrator and session store.
func newRouter(runner questionRunner, sessions session.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/query", func(w http.ResponseWriter, req *http.Request) {
		var q queryRequest
		if err := json.NewDecoder(req.Body).Decode(&q); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if strings.TrimSpace(q.Question) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
			return
		}

		id := q.SessionID
		if id == "" {
			id = session.NewID()
		}

		history, err := sessions.History(req.Context(), id)
		if err != nil {
			zap.L().Error("session history load failed", zap.String("session_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session lookup failed"})
			return
		}

		start := time.Now()
		result, err := runner.Run(req.Context(), contextualQuestion(history, q.Question))
		if err != nil {
			zap.L().Error("query run failed",
				zap.String("session_id", id),
				zap.Error(err),
			)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "analysis failed"})
			return
		}
		zap.L().Info("query answered",
			zap.String("session_id", id),
			zap.Int("tool_calls", len(result.History)),
			zap.Duration("duration", time.Since(start)),
		)

		now := time.Now().UTC()
		for _, turn := range []session.Turn{
			{Role: "user", Content: q.Question, At: now},
			{Role: "assistant", Content: result.FinalAnswer, At: now},
		} {
			if err := sessions.Append(req.Context(), id, turn); err != nil {
				zap.L().Warn("session append failed", zap.String("session_id", id), zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, queryResponse{
			Answer:    result.FinalAnswer,
			SessionID: id,
			History:   result.History,
		})
	})

	return r
}

// contextualQuestion prefixes the question with retained conversation turns
// so follow-ups like "what about last season?" resolve against prior context.
func contextualQuestion(history []session.Turn, question string) string {
	if len(history) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	fmt.Fprintf(&b, "\nCurrent question: %s", question)
	return b.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newSessionStore selects the session backend from config.
func newSessionStore() (session.Store, error) {
	if cfg.Session.Backend == "sqlite" {
		return session.NewSQLiteStore(cfg.Session.Path, cfg.Session.MaxTurns)
	}
	return session.NewMemoryStore(cfg.Session.MaxTurns), nil
}
