// Package vector persists chunk embeddings in a pgvector-backed table and
// serves distance-ordered retrieval with a documented zero-row fallback.
package vector

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/db"
	"github.com/gridiron-labs/analyst-cli/internal/model"
)

const (
	orderedTopKSQL = "SELECT url, ordinal, content, embedding <=> $1::vector AS distance FROM web_chunks ORDER BY distance LIMIT $2"
	countSQL       = "SELECT count(*) FROM web_chunks"
	fullScanSQL    = "SELECT url, ordinal, content, embedding <=> $1::vector AS distance FROM web_chunks"
)

// Store reads and writes the web_chunks table. Dim is the declared embedding
// dimension; inserts with any other dimension are rejected outright.
type Store struct {
	pool db.Pool
	dim  int
}

// NewStore creates a chunk store with the given declared dimension.
func NewStore(pool db.Pool, dim int) *Store {
	return &Store{pool: pool, dim: dim}
}

// UpsertChunks writes chunks keyed by (url, ordinal); latest write wins.
// Re-processing a URL overwrites matching ordinals, so identical input is
// idempotent. A dimension mismatch on any chunk fails the whole batch.
func (s *Store) UpsertChunks(ctx context.Context, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) != s.dim {
			return eris.Errorf("vector: chunk %s#%d has dimension %d, store expects %d",
				c.URL, c.Ordinal, len(c.Embedding), s.dim)
		}
		rows = append(rows, []any{c.URL, c.Ordinal, c.Text, encodeVector(c.Embedding)})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "web_chunks",
		Columns:      []string{"url", "ordinal", "content", "embedding"},
		ConflictKeys: []string{"url", "ordinal"},
		Casts:        map[string]string{"embedding": "vector"},
	}, rows)
	if err != nil {
		return err
	}

	zap.L().Debug("upserted chunks", zap.Int64("rows", n))
	return nil
}

// TopK returns the k stored chunks nearest to the query embedding, sorted by
// non-decreasing cosine distance. Ordered-LIMIT queries against pooled
// pgvector connections are known to silently return zero rows under some
// approximate-index configurations despite non-empty data, so a zero-row
// ordered result triggers a count check and, when storage is non-empty, an
// unordered full scan with top-k selection done here.
func (s *Store) TopK(ctx context.Context, embedding []float32, k int) ([]model.RankedChunk, error) {
	if len(embedding) != s.dim {
		return nil, eris.Errorf("vector: query embedding has dimension %d, store expects %d", len(embedding), s.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	lit := encodeVector(embedding)

	ranked, err := s.queryRanked(ctx, orderedTopKSQL, lit, k)
	if err != nil {
		return nil, err
	}
	if len(ranked) > 0 {
		return ranked, nil
	}

	var count int64
	if err := s.pool.QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return nil, eris.Wrap(err, "vector: count chunks")
	}
	if count == 0 {
		return nil, nil
	}

	zap.L().Warn("ordered vector query returned zero rows over non-empty storage, falling back to full scan",
		zap.Int64("stored", count),
	)

	ranked, err = s.queryRanked(ctx, fullScanSQL, lit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Distance < ranked[j].Distance })
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}

func (s *Store) queryRanked(ctx context.Context, sql string, args ...any) ([]model.RankedChunk, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "vector: distance query")
	}
	defer rows.Close()

	var out []model.RankedChunk
	for rows.Next() {
		var rc model.RankedChunk
		if err := rows.Scan(&rc.URL, &rc.Ordinal, &rc.Text, &rc.Distance); err != nil {
			return nil, eris.Wrap(err, "vector: scan ranked chunk")
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "vector: iterate ranked chunks")
	}
	return out, nil
}

// encodeVector renders an embedding in pgvector's text input format.
func encodeVector(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
