package webagent

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
	"github.com/gridiron-labs/analyst-cli/internal/vector"
	"github.com/gridiron-labs/analyst-cli/pkg/jina"
)

type scriptedCompleter struct {
	responses []string
	calls     int
}

func (s *scriptedCompleter) Complete(context.Context, []oracle.Message, oracle.Options) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("scripted completer ran out of responses")
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

// fakeJina serves canned search results, page content, and embeddings.
type fakeJina struct {
	searchResults map[string][]jina.SearchResult
	searchErr     map[string]error
	pages         map[string]string
	readErr       map[string]error
	embedDim      int
}

func (f *fakeJina) Search(_ context.Context, query string, _ ...jina.SearchOption) (*jina.SearchResponse, error) {
	if err := f.searchErr[query]; err != nil {
		return nil, err
	}
	return &jina.SearchResponse{Code: 200, Data: f.searchResults[query]}, nil
}

func (f *fakeJina) Read(_ context.Context, url string) (*jina.ReadResponse, error) {
	if err := f.readErr[url]; err != nil {
		return nil, err
	}
	return &jina.ReadResponse{Code: 200, Data: jina.ReadData{URL: url, Content: f.pages[url]}}, nil
}

func (f *fakeJina) Embed(_ context.Context, texts []string) (*jina.EmbedResponse, error) {
	resp := &jina.EmbedResponse{Model: "jina-embeddings-v3"}
	for i := range texts {
		vec := make([]float32, f.embedDim)
		vec[0] = 0.5
		resp.Data = append(resp.Data, jina.Embedding{Index: i, Embedding: vec})
	}
	return resp, nil
}

const refineTwoQueries = `{
	"original_question": "what is the latest on Lamar Jackson's contract?",
	"queries": [
		{"role": "primary", "query": "Lamar Jackson contract extension NFL", "notes": "main topic"},
		{"role": "supporting", "query": "Baltimore Ravens salary cap news", "notes": "team context"}
	],
	"assumptions": ["Lamar refers to Lamar Jackson"]
}`

func TestRefine_ParsesTaggedQueries(t *testing.T) {
	c := &scriptedCompleter{responses: []string{refineTwoQueries}}
	queries, err := refine(context.Background(), c, "what is the latest on Lamar Jackson's contract?", 2048)
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, model.QueryRolePrimary, queries[0].Role)
	assert.Equal(t, model.QueryRoleSupporting, queries[1].Role)
	assert.Equal(t, "Lamar Jackson contract extension NFL", primaryQuery(queries))
}

func TestRefine_InvalidJSONIsFatal(t *testing.T) {
	c := &scriptedCompleter{responses: []string{"Here are some good queries you could try."}}
	_, err := refine(context.Background(), c, "q", 2048)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
	assert.Contains(t, err.Error(), "Here are some good queries")
}

func TestRefine_NoQueriesFallsBackToQuestion(t *testing.T) {
	c := &scriptedCompleter{responses: []string{`{"original_question": "q", "queries": [], "assumptions": []}`}}
	queries, err := refine(context.Background(), c, "who won the game last night?", 2048)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "who won the game last night?", queries[0].Query)
	assert.Equal(t, model.QueryRolePrimary, queries[0].Role)
}

func TestRefine_CapsAtThreeQueries(t *testing.T) {
	c := &scriptedCompleter{responses: []string{`{"queries": [
		{"role": "primary", "query": "a"},
		{"role": "supporting", "query": "b"},
		{"role": "supporting", "query": "c"},
		{"role": "supporting", "query": "d"}
	]}`}}
	queries, err := refine(context.Background(), c, "q", 2048)
	require.NoError(t, err)
	assert.Len(t, queries, 3)
}

func TestSearch_DeduplicatesByFullEqualityPreservingOrder(t *testing.T) {
	shared := jina.SearchResult{Title: "Report", URL: "https://news/1", Description: "snippet"}
	client := &fakeJina{searchResults: map[string][]jina.SearchResult{
		"q1": {shared, {Title: "Other", URL: "https://news/2", Description: "other"}},
		"q2": {shared, {Title: "Report", URL: "https://news/1", Description: "different snippet"}},
	}}

	hits := search(context.Background(), client, []model.RefinedQuery{
		{Role: model.QueryRolePrimary, Query: "q1"},
		{Role: model.QueryRoleSupporting, Query: "q2"},
	}, 5)

	// Exact duplicate collapses; same URL with a different snippet survives.
	require.Len(t, hits, 3)
	assert.Equal(t, "https://news/1", hits[0].URL)
	assert.Equal(t, "https://news/2", hits[1].URL)
	assert.Equal(t, "different snippet", hits[2].Snippet)
}

func TestSearch_FailedQueryContributesNothing(t *testing.T) {
	client := &fakeJina{
		searchResults: map[string][]jina.SearchResult{"good": {{Title: "T", URL: "https://a"}}},
		searchErr:     map[string]error{"bad": errors.New("search down")},
	}

	hits := search(context.Background(), client, []model.RefinedQuery{
		{Query: "bad"}, {Query: "good"},
	}, 5)
	require.Len(t, hits, 1)
	assert.Equal(t, "https://a", hits[0].URL)
}

func TestRun_FullPipeline(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	client := &fakeJina{
		embedDim: 2,
		searchResults: map[string][]jina.SearchResult{
			"Lamar Jackson contract extension NFL": {
				{Title: "Deal news", URL: "https://news/deal", Description: "s1"},
			},
			"Baltimore Ravens salary cap news": {
				{Title: "Cap report", URL: "https://news/cap", Description: "s2"},
				// Duplicate URL with a different title dedupes at the URL level
				// before fetching.
				{Title: "Deal news again", URL: "https://news/deal", Description: "s3"},
			},
		},
		pages: map[string]string{
			"https://news/deal": "alpha beta gamma delta",
			"https://news/cap":  "", // null extraction: zero chunks, batch continues
		},
	}

	// One upsert for the one URL that produced chunks (window 3, overlap 1
	// over 4 tokens = 2 chunks), then the ranking query.
	mock.ExpectExec(`INSERT INTO "web_chunks"`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectQuery("ORDER BY distance LIMIT").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"url", "ordinal", "content", "distance"}).
			AddRow("https://news/deal", 0, "alpha beta gamma", 0.08).
			AddRow("https://news/deal", 1, "gamma delta", 0.21))

	completer := &scriptedCompleter{responses: []string{
		refineTwoQueries,
		"Lamar Jackson signed a five-year extension [1].\n\nSources:\nhttps://news/deal",
	}}

	agent := New(completer, client, vector.NewStore(mock, 2), Config{
		HitsPerQuery:   5,
		ChunkTokens:    3,
		ChunkOverlap:   1,
		TopK:           6,
		FetchParallel:  1,
		SynthMaxTokens: 2048,
	})

	result, err := agent.Run(context.Background(), "what is the latest on Lamar Jackson's contract?")
	require.NoError(t, err)
	assert.Contains(t, result.Answer, "five-year extension")
	assert.Equal(t, []string{"https://news/deal"}, result.Sources)
	assert.Equal(t, 2, result.Chunks)
	require.Len(t, result.Queries, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_NoEvidenceIsExplicit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Nothing stored: ordered query empty, count zero, no fallback scan.
	mock.ExpectQuery("ORDER BY distance LIMIT").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"url", "ordinal", "content", "distance"}))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	client := &fakeJina{embedDim: 2}
	completer := &scriptedCompleter{responses: []string{
		`{"queries": [{"role": "primary", "query": "zzqx notaplayer news"}]}`,
	}}

	agent := New(completer, client, vector.NewStore(mock, 2), Config{
		HitsPerQuery: 5, ChunkTokens: 3, ChunkOverlap: 1, TopK: 6, FetchParallel: 1, SynthMaxTokens: 2048,
	})

	result, err := agent.Run(context.Background(), "any news about zzqx notaplayer?")
	require.NoError(t, err)
	assert.Equal(t, noEvidenceAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 1, completer.calls, "synthesis must be skipped without evidence")
}

func TestRun_FetchFailureYieldsZeroChunksForURL(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	client := &fakeJina{
		embedDim: 2,
		searchResults: map[string][]jina.SearchResult{
			"q": {{Title: "Gone", URL: "https://news/gone"}},
		},
		readErr: map[string]error{"https://news/gone": errors.New("404")},
	}

	mock.ExpectQuery("ORDER BY distance LIMIT").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"url", "ordinal", "content", "distance"}))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	completer := &scriptedCompleter{responses: []string{
		`{"queries": [{"role": "primary", "query": "q"}]}`,
	}}

	agent := New(completer, client, vector.NewStore(mock, 2), Config{
		HitsPerQuery: 5, ChunkTokens: 3, ChunkOverlap: 1, TopK: 6, FetchParallel: 2, SynthMaxTokens: 2048,
	})

	result, err := agent.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Zero(t, result.Chunks)
	assert.Equal(t, noEvidenceAnswer, result.Answer)
}
