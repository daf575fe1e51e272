package webagent

import (
	"context"

	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/pkg/jina"
)

// search issues every refined query against the search provider, concatenates
// result sets in query order, and drops exact-duplicate hits while keeping
// first-seen order. A failed individual query logs and contributes nothing;
// the batch continues.
func search(ctx context.Context, client jina.Client, queries []model.RefinedQuery, hitsPerQuery int) []model.SearchHit {
	var hits []model.SearchHit
	seen := make(map[model.SearchHit]bool)

	for _, q := range queries {
		resp, err := client.Search(ctx, q.Query, jina.WithMaxResults(hitsPerQuery))
		if err != nil {
			zap.L().Warn("search query failed", zap.String("query", q.Query), zap.Error(err))
			continue
		}
		for _, r := range resp.Data {
			hit := model.SearchHit{Title: r.Title, URL: r.URL, Snippet: r.Description}
			if seen[hit] {
				continue
			}
			seen[hit] = true
			hits = append(hits, hit)
		}
	}

	zap.L().Debug("search complete",
		zap.Int("queries", len(queries)),
		zap.Int("unique_hits", len(hits)),
	)
	return hits
}
