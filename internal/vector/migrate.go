package vector

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/db"
)

// Migrate creates the extensions and the chunk table. pg_trgm backs the SQL
// agent's fuzzy name resolution; vector backs chunk retrieval. Idempotent.
func Migrate(ctx context.Context, pool db.Pool, dim int) error {
	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS pg_trgm",
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS web_chunks (
	url TEXT NOT NULL,
	ordinal INTEGER NOT NULL,
	content TEXT NOT NULL,
	embedding vector(%d) NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (url, ordinal)
)`, dim),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return eris.Wrapf(err, "vector: migrate: %.40s", stmt)
		}
	}

	zap.L().Info("vector store migrated", zap.Int("dimension", dim))
	return nil
}
