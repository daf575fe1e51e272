package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-labs/analyst-cli/pkg/openrouter"
)

type fakeRouter struct {
	resp *openrouter.ChatCompletionResponse
	err  error
	got  openrouter.ChatCompletionRequest
}

func (f *fakeRouter) ChatCompletion(_ context.Context, req openrouter.ChatCompletionRequest) (*openrouter.ChatCompletionResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestOpenRouterComplete_TrimsContent(t *testing.T) {
	fake := &fakeRouter{resp: &openrouter.ChatCompletionResponse{
		Choices: []openrouter.Choice{{Message: openrouter.Message{Role: "assistant", Content: "  {\"action\":\"FINISH\"}\n"}}},
	}}
	c := NewOpenRouter(fake, "test-model", time.Millisecond)

	out, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "instructions"},
		{Role: "user", Content: "context"},
	}, Options{MaxTokens: 512})
	require.NoError(t, err)
	assert.Equal(t, `{"action":"FINISH"}`, out)
	assert.Equal(t, "test-model", fake.got.Model)
	require.Len(t, fake.got.Messages, 2)
	assert.Equal(t, "system", fake.got.Messages[0].Role)
}

func TestOpenRouterComplete_NoChoicesIsFatal(t *testing.T) {
	fake := &fakeRouter{resp: &openrouter.ChatCompletionResponse{ID: "gen-123"}}
	c := NewOpenRouter(fake, "test-model", time.Millisecond)

	_, err := c.Complete(context.Background(), nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response format")
	assert.Contains(t, err.Error(), "gen-123")
}

func TestOpenRouterComplete_EmptyContentIsFatal(t *testing.T) {
	fake := &fakeRouter{resp: &openrouter.ChatCompletionResponse{
		Choices: []openrouter.Choice{{Message: openrouter.Message{Content: "   "}}},
	}}
	c := NewOpenRouter(fake, "test-model", time.Millisecond)

	_, err := c.Complete(context.Background(), nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion content")
}

func TestOpenRouterComplete_PacesConsecutiveCalls(t *testing.T) {
	fake := &fakeRouter{resp: &openrouter.ChatCompletionResponse{
		Choices: []openrouter.Choice{{Message: openrouter.Message{Content: "ok"}}},
	}}
	c := NewOpenRouter(fake, "test-model", 40*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Complete(context.Background(), nil, Options{})
		require.NoError(t, err)
	}
	// First call is admitted immediately, the next two wait out the interval.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}
