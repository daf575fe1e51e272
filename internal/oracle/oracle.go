// Package oracle is the boundary to the external text-completion service.
// The service is untrusted: it guarantees transport-level structure only,
// never content correctness. Every call is paced and blocking.
package oracle

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gridiron-labs/analyst-cli/pkg/anthropic"
	"github.com/gridiron-labs/analyst-cli/pkg/openrouter"
)

// Message is one role-tagged entry in an oracle conversation. Role is
// "system" for the fixed per-call-site instruction or "user" for serialized
// JSON context.
type Message struct {
	Role    string
	Content string
}

// Options tunes a single completion call.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Completer sends an ordered message sequence to the oracle and returns the
// assistant's text. Transport failures and malformed response envelopes are
// fatal errors carrying the raw envelope.
type Completer interface {
	Complete(ctx context.Context, msgs []Message, opts Options) (string, error)
}

// openrouterCompleter paces and dispatches calls through the OpenRouter API.
type openrouterCompleter struct {
	client  openrouter.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenRouter creates a paced Completer backed by OpenRouter. One call is
// admitted per pacing interval.
func NewOpenRouter(client openrouter.Client, model string, pacing time.Duration) Completer {
	return &openrouterCompleter{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(pacing), 1),
	}
}

func (c *openrouterCompleter) Complete(ctx context.Context, msgs []Message, opts Options) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "oracle: pacing wait")
	}

	req := openrouter.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: &opts.Temperature,
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openrouter.Message{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", eris.Wrap(err, "oracle: completion request")
	}

	if len(resp.Choices) == 0 {
		return "", eris.Errorf("oracle: unexpected response format: %s", rawEnvelope(resp))
	}
	choice := resp.Choices[0]
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", eris.Errorf("oracle: empty completion content: %s", rawEnvelope(resp))
	}

	zap.L().Debug("oracle round trip",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.String("finish_reason", choice.FinishReason),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return content, nil
}

// anthropicCompleter paces and dispatches calls through the Anthropic API.
type anthropicCompleter struct {
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
}

// NewAnthropic creates a paced Completer backed by the Anthropic API.
func NewAnthropic(client anthropic.Client, model string, pacing time.Duration) Completer {
	return &anthropicCompleter{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(pacing), 1),
	}
}

func (c *anthropicCompleter) Complete(ctx context.Context, msgs []Message, opts Options) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "oracle: pacing wait")
	}

	req := anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: &opts.Temperature,
	}
	for _, m := range msgs {
		if m.Role == "system" {
			req.System = append(req.System, anthropic.SystemBlock{Text: m.Content})
			continue
		}
		req.Messages = append(req.Messages, anthropic.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateMessage(ctx, req)
	if err != nil {
		return "", eris.Wrap(err, "oracle: completion request")
	}

	var text strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			text.WriteString(b.Text)
		}
	}
	content := strings.TrimSpace(text.String())
	if content == "" {
		return "", eris.Errorf("oracle: empty completion content: %s", rawEnvelope(resp))
	}

	resp.Usage.LogCost(c.model, "completion")

	return content, nil
}

// rawEnvelope renders a decoded response for fatal-error diagnostics.
func rawEnvelope(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unencodable envelope>"
	}
	return string(b)
}
