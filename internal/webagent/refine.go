package webagent

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/gridiron-labs/analyst-cli/internal/llmjson"
	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
)

// maxRefinedQueries caps how many search strings one question expands into.
const maxRefinedQueries = 3

type wireRefinement struct {
	OriginalQuestion string `json:"original_question"`
	Queries          []struct {
		Role  string `json:"role"`
		Query string `json:"query"`
		Notes string `json:"notes"`
	} `json:"queries"`
	Assumptions []string `json:"assumptions"`
}

// refine expands the question into 1-3 tagged search queries. An oracle
// response that is not valid JSON is a protocol violation and aborts the run;
// a valid response with no queries falls back to searching the question
// verbatim.
func refine(ctx context.Context, c oracle.Completer, question string, maxTokens int) ([]model.RefinedQuery, error) {
	raw, err := c.Complete(ctx, []oracle.Message{
		{Role: "system", Content: refineInstruction},
		{Role: "user", Content: question},
	}, oracle.Options{MaxTokens: maxTokens})
	if err != nil {
		return nil, eris.Wrap(err, "webagent: refine call")
	}

	extracted := llmjson.ExtractObject(raw)
	var w wireRefinement
	if err := json.Unmarshal([]byte(extracted), &w); err != nil {
		return nil, eris.Wrapf(err, "webagent: refine returned invalid JSON\nraw response:\n%s\n\nextracted candidate JSON:\n%s", raw, extracted)
	}

	var out []model.RefinedQuery
	for _, q := range w.Queries {
		if q.Query == "" {
			continue
		}
		role := model.QueryRoleSupporting
		if q.Role == string(model.QueryRolePrimary) {
			role = model.QueryRolePrimary
		}
		out = append(out, model.RefinedQuery{Role: role, Query: q.Query, Notes: q.Notes})
		if len(out) == maxRefinedQueries {
			break
		}
	}

	if len(out) == 0 {
		out = []model.RefinedQuery{{Role: model.QueryRolePrimary, Query: question}}
	}
	return out, nil
}

// primaryQuery picks the ranking query: the first primary-tagged refinement,
// else the first refinement.
func primaryQuery(queries []model.RefinedQuery) string {
	for _, q := range queries {
		if q.Role == model.QueryRolePrimary {
			return q.Query
		}
	}
	return queries[0].Query
}
