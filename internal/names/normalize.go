package names

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
)

// Normalize issues the single per-run normalization call and parses the
// response. Transport failures propagate; content that matches neither
// response shape yields zero mentions.
func Normalize(ctx context.Context, c oracle.Completer, question string) (*model.Normalization, error) {
	raw, err := c.Complete(ctx, []oracle.Message{
		{Role: "system", Content: instruction},
		{Role: "user", Content: question},
	}, oracle.Options{MaxTokens: 512})
	if err != nil {
		return nil, eris.Wrap(err, "names: normalization call")
	}

	norm := Parse(raw)
	zap.L().Debug("name normalization",
		zap.Int("mentions", len(norm.Players)),
	)
	return norm, nil
}
