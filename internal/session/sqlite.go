package session

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_turns (
	session_id TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	at         TIMESTAMP NOT NULL,
	PRIMARY KEY (session_id, seq)
);`

// SQLiteStore is the file-backed backend used by the HTTP server so sessions
// survive restarts.
type SQLiteStore struct {
	db       *sql.DB
	maxTurns int
}

// NewSQLiteStore opens (creating if needed) the SQLite file at path.
func NewSQLiteStore(path string, maxTurns int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "session: open sqlite")
	}
	// modernc.org/sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "session: create schema")
	}
	return &SQLiteStore{db: db, maxTurns: maxTurns}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, id string, turn Turn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "session: begin append")
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM session_turns WHERE session_id = ?`, id,
	).Scan(&next)
	if err != nil {
		return eris.Wrap(err, "session: next seq")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO session_turns (session_id, seq, role, content, at) VALUES (?, ?, ?, ?, ?)`,
		id, next, turn.Role, turn.Content, turn.At,
	)
	if err != nil {
		return eris.Wrap(err, "session: insert turn")
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM session_turns WHERE session_id = ? AND seq <= ? - ?`,
		id, next, s.maxTurns,
	)
	if err != nil {
		return eris.Wrap(err, "session: evict old turns")
	}

	return eris.Wrap(tx.Commit(), "session: commit append")
}

func (s *SQLiteStore) History(ctx context.Context, id string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, at FROM session_turns WHERE session_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, eris.Wrap(err, "session: query history")
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Role, &t.Content, &t.At); err != nil {
			return nil, eris.Wrap(err, "session: scan turn")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "session: iterate history")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
