package webagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
)

// synthesize builds the single evidence-grounded answer call. Ranked chunks
// are enumerated with index and source URL so the oracle can cite them.
func synthesize(ctx context.Context, c oracle.Completer, question string, ranked []model.RankedChunk, maxTokens int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nEvidence chunks:\n", question)
	for i, rc := range ranked {
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, rc.URL, rc.Text)
	}

	answer, err := c.Complete(ctx, []oracle.Message{
		{Role: "system", Content: synthesizeInstruction},
		{Role: "user", Content: b.String()},
	}, oracle.Options{MaxTokens: maxTokens})
	if err != nil {
		return "", eris.Wrap(err, "webagent: synthesize call")
	}
	return answer, nil
}
