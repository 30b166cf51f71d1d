// Package ai generates project summaries with the Anthropic Messages API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"missioncontrol/pkg/config"
	"missioncontrol/pkg/metrics"
	"missioncontrol/pkg/otel"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var ErrNoText = errors.New("response has no text block")

// messagesAPI is the part of anthropic.MessageService the client needs.
type messagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type Client struct {
	messages  messagesAPI
	breaker   *gobreaker.CircuitBreaker
	model     string
	maxTokens int64
	timeout   time.Duration
	logger    *zap.Logger
}

// NewClient builds a client for cfg. The breaker opens after 3 consecutive
// failures and probes again after 30s.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	c := anthropic.NewClient(option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1))
	return newClient(&c.Messages, cfg, logger)
}

func newClient(messages messagesAPI, cfg config.AIConfig, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "anthropic-messages",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		messages:  messages,
		breaker:   breaker,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Generate sends one user message under the system prompt and returns the first text block.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := otel.StartSpan(ctx, "ai.generate_summary")
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", c.model))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: c.maxTokens,
			System:    []anthropic.TextBlockParam{{Text: system}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return nil, err
		}
		return firstText(resp)
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordAICallLatency("error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("Summary generation call failed",
			zap.String("model", c.model),
			zap.Duration("latency", elapsed),
			zap.String("breaker_state", c.breaker.State().String()),
			zap.Error(err),
		)
		return "", fmt.Errorf("generate summary: %w", err)
	}

	metrics.RecordAICallLatency("ok", elapsed)
	c.logger.Debug("Summary generation call succeeded",
		zap.String("model", c.model),
		zap.Duration("latency", elapsed),
	)
	return out.(string), nil
}

func firstText(resp *anthropic.Message) (string, error) {
	if resp == nil {
		return "", ErrNoText
	}
	for _, block := range resp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", ErrNoText
}
