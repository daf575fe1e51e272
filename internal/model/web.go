package model

// QueryRole distinguishes the main retrieval query from auxiliary ones.
type QueryRole string

const (
	QueryRolePrimary    QueryRole = "primary"
	QueryRoleSupporting QueryRole = "supporting"
)

// RefinedQuery is one search string produced by the refine step.
type RefinedQuery struct {
	Role  QueryRole `json:"role"`
	Query string    `json:"query"`
	Notes string    `json:"notes,omitempty"`
}

// SearchHit is one web search result. Hits are deduplicated by full record
// equality across all refined-query result sets, preserving first-seen order.
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Chunk is one overlapping token window over a fetched document, keyed by
// (URL, Ordinal) in the vector store.
type Chunk struct {
	URL       string    `json:"url"`
	Ordinal   int       `json:"ordinal"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

// RankedChunk is a retrieval result ordered by vector distance (smaller is
// closer).
type RankedChunk struct {
	URL      string  `json:"url"`
	Ordinal  int     `json:"ordinal"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}
