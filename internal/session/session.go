// Package session persists per-conversation turn history so follow-up
// questions can carry context. Two backends: an in-process map for the CLI
// and a SQLite file for the HTTP server.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Turn is one exchange entry. Role is "user" or "assistant".
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Store keeps bounded turn histories keyed by opaque session id. Histories
// are trimmed to the newest maxTurns entries on append; older turns are
// evicted silently.
type Store interface {
	// Append records a turn for the session, creating it if needed.
	Append(ctx context.Context, id string, turn Turn) error
	// History returns the session's retained turns, oldest first. An unknown
	// id yields an empty history, not an error.
	History(ctx context.Context, id string) ([]Turn, error)
	Close() error
}

// NewID mints a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}
