// Package webagent is the retrieval-augmented web sub-agent: refine the
// question into search queries, fetch and chunk the results, embed and store
// the chunks, then synthesize one evidence-grounded answer.
package webagent

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
	"github.com/gridiron-labs/analyst-cli/internal/vector"
	"github.com/gridiron-labs/analyst-cli/pkg/jina"
)

// noEvidenceAnswer is returned when retrieval produced nothing to ground an
// answer on. Empty evidence is a result, not an error.
const noEvidenceAnswer = "I could not retrieve any relevant web evidence for this question, so I cannot answer it from current sources."

// Config tunes the retrieval pipeline.
type Config struct {
	HitsPerQuery   int
	ChunkTokens    int
	ChunkOverlap   int
	TopK           int
	FetchParallel  int
	SynthMaxTokens int
}

// Result is a completed web sub-agent run.
type Result struct {
	Answer  string
	Sources []string
	Queries []model.RefinedQuery
	Chunks  int
}

// Agent is the web retrieval sub-agent. One Agent serves one run at a time.
type Agent struct {
	completer oracle.Completer
	client    jina.Client
	store     *vector.Store
	cfg       Config
}

// New creates a web sub-agent over the oracle, the Jina client, and the
// vector store.
func New(completer oracle.Completer, client jina.Client, store *vector.Store, cfg Config) *Agent {
	return &Agent{completer: completer, client: client, store: store, cfg: cfg}
}

// Run executes the full single-pass pipeline. Per-URL fetch, chunk, embed,
// and store work runs concurrently; everything joins before the one ranking
// query. Individual URL failures yield zero chunks for that URL and never
// abort the batch.
func (a *Agent) Run(ctx context.Context, question string) (*Result, error) {
	queries, err := refine(ctx, a.completer, question, a.cfg.SynthMaxTokens)
	if err != nil {
		return nil, err
	}

	hits := search(ctx, a.client, queries, a.cfg.HitsPerQuery)

	var stored atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.FetchParallel)
	for _, url := range uniqueURLs(hits) {
		g.Go(func() error {
			n := a.ingestURL(gctx, url)
			stored.Add(int64(n))
			return nil
		})
	}
	// Per-URL goroutines never return errors, but the join itself is the
	// serialization point required before ranking.
	_ = g.Wait()

	ranked, err := a.rank(ctx, queries)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Queries: queries,
		Chunks:  int(stored.Load()),
	}
	if len(ranked) == 0 {
		result.Answer = noEvidenceAnswer
		return result, nil
	}

	answer, err := synthesize(ctx, a.completer, question, ranked, a.cfg.SynthMaxTokens)
	if err != nil {
		return nil, err
	}
	result.Answer = answer
	result.Sources = uniqueSources(ranked)
	return result, nil
}

// ingestURL fetches one URL, chunks the extracted text, embeds the chunks,
// and upserts them. Returns the number of chunks stored; every failure mode
// logs and yields zero.
func (a *Agent) ingestURL(ctx context.Context, url string) int {
	resp, err := a.client.Read(ctx, url)
	if err != nil {
		zap.L().Warn("fetch failed", zap.String("url", url), zap.Error(err))
		return 0
	}

	chunks := chunkDocument(url, resp.Data.Content, a.cfg.ChunkTokens, a.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		zap.L().Debug("extraction yielded no content", zap.String("url", url))
		return 0
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeds, err := a.client.Embed(ctx, texts)
	if err != nil {
		zap.L().Warn("embedding failed", zap.String("url", url), zap.Error(err))
		return 0
	}
	for _, e := range embeds.Data {
		if e.Index >= 0 && e.Index < len(chunks) {
			chunks[e.Index].Embedding = e.Embedding
		}
	}

	if err := a.store.UpsertChunks(ctx, chunks); err != nil {
		zap.L().Warn("chunk upsert failed", zap.String("url", url), zap.Error(err))
		return 0
	}
	return len(chunks)
}

// rank embeds the primary query and retrieves the nearest stored chunks.
func (a *Agent) rank(ctx context.Context, queries []model.RefinedQuery) ([]model.RankedChunk, error) {
	primary := primaryQuery(queries)
	embeds, err := a.client.Embed(ctx, []string{primary})
	if err != nil {
		return nil, eris.Wrap(err, "webagent: embed ranking query")
	}
	if len(embeds.Data) != 1 {
		return nil, eris.Errorf("webagent: expected one query embedding, got %d", len(embeds.Data))
	}
	return a.store.TopK(ctx, embeds.Data[0].Embedding, a.cfg.TopK)
}

func uniqueURLs(hits []model.SearchHit) []string {
	seen := make(map[string]bool, len(hits))
	var out []string
	for _, h := range hits {
		if h.URL == "" || seen[h.URL] {
			continue
		}
		seen[h.URL] = true
		out = append(out, h.URL)
	}
	return out
}

func uniqueSources(ranked []model.RankedChunk) []string {
	seen := make(map[string]bool, len(ranked))
	var out []string
	for _, rc := range ranked {
		if seen[rc.URL] {
			continue
		}
		seen[rc.URL] = true
		out = append(out, rc.URL)
	}
	return out
}
