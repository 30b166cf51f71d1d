package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"missioncontrol/pkg/config"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessages struct {
	calls int
	last  anthropic.MessageNewParams
	resp  *anthropic.Message
	err   error
}

func (f *fakeMessages) New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	f.calls++
	f.last = body
	return f.resp, f.err
}

var testCfg = config.AIConfig{Model: "claude-haiku-4-5-20251001", MaxTokens: 200, Timeout: time.Second}

func TestGenerateReturnsFirstTextBlock(t *testing.T) {
	fake := &fakeMessages{resp: &anthropic.Message{Content: []anthropic.ContentBlockUnion{
		{Type: "thinking"},
		{Type: "text", Text: "Project is healthy."},
		{Type: "text", Text: "ignored"},
	}}}
	c := newClient(fake, testCfg, zap.NewNop())

	text, err := c.Generate(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Project is healthy.", text)

	assert.Equal(t, anthropic.Model("claude-haiku-4-5-20251001"), fake.last.Model)
	assert.Equal(t, int64(200), fake.last.MaxTokens)
	require.Len(t, fake.last.System, 1)
	assert.Equal(t, "system", fake.last.System[0].Text)
	require.Len(t, fake.last.Messages, 1)
	assert.Equal(t, anthropic.MessageParamRoleUser, fake.last.Messages[0].Role)
}

func TestGenerateWithoutTextIsAnError(t *testing.T) {
	c := newClient(&fakeMessages{resp: &anthropic.Message{}}, testCfg, zap.NewNop())
	_, err := c.Generate(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrNoText)
}

func TestBreakerOpensAfterThreeFailures(t *testing.T) {
	fake := &fakeMessages{err: errors.New("529 overloaded")}
	c := newClient(fake, testCfg, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := c.Generate(context.Background(), "s", "p")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())

	_, err := c.Generate(context.Background(), "s", "p")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, fake.calls, "open breaker must not call the API")
}
