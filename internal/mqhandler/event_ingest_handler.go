package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	contractmq "missioncontrol/contracts/mq"
	"missioncontrol/internal/model"
	"missioncontrol/pkg/metrics"
	"missioncontrol/pkg/util"

	"go.uber.org/zap"
)

// EventStore appends events to the events cache.
type EventStore interface {
	Insert(ctx context.Context, e model.Event) (*model.Event, error)
}

// Deduper claims a key once per dedup window.
type Deduper interface {
	AcquireOnce(ctx context.Context, key string) bool
	Release(ctx context.Context, key string)
}

// DeadLetterer parks messages that will never succeed.
type DeadLetterer interface {
	PublishToDLQ(routingKey string, payload []byte, reason string) error
}

type EventIngestHandler struct {
	events EventStore
	dedup  Deduper
	dlq    DeadLetterer
	logger *zap.Logger
}

func NewEventIngestHandler(events EventStore, dedup Deduper, dlq DeadLetterer, logger *zap.Logger) *EventIngestHandler {
	return &EventIngestHandler{
		events: events,
		dedup:  dedup,
		dlq:    dlq,
		logger: logger,
	}
}

// Handle stores one integration event. A nil return acks the delivery; an
// error nacks it with requeue.
func (h *EventIngestHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p contractmq.IntegrationEventPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return h.reject(raw, "unknown", "json_decode_error", err)
	}

	e, err := toEvent(p)
	if err != nil {
		return h.reject(raw, p.Provider, "validation_error", err)
	}

	h.logger.Info("Processing integration event",
		zap.String("project_id", e.ProjectID),
		zap.String("provider", string(e.Provider)),
		zap.String("event_type", e.EventType),
		zap.String("external_id", p.ExternalID),
	)

	key := ""
	if p.ExternalID != "" {
		key = "event:" + p.Provider + ":" + p.ExternalID
		if !h.dedup.AcquireOnce(ctx, key) {
			metrics.IncrementEventIngested(p.Provider, "duplicate")
			return nil
		}
	}

	if _, err := h.events.Insert(ctx, e); err != nil {
		if key != "" {
			h.dedup.Release(ctx, key)
		}

		retryable, reason := util.IsRetryableError(err)
		if !retryable {
			return h.reject(raw, p.Provider, reason, err)
		}
		metrics.IncrementEventIngested(p.Provider, "failed")
		h.logger.Error("Failed to store integration event",
			zap.String("project_id", e.ProjectID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return fmt.Errorf("store event: %w", err)
	}

	metrics.IncrementEventIngested(p.Provider, "stored")
	return nil
}

// reject sends the raw message to the DLQ and acks it. If the DLQ publish
// fails the delivery is requeued so the message is not lost.
func (h *EventIngestHandler) reject(raw []byte, provider, reason string, cause error) error {
	if provider == "" {
		provider = "unknown"
	}
	metrics.IncrementEventIngested(provider, "rejected")
	h.logger.Warn("Rejecting integration event",
		zap.String("provider", provider),
		zap.String("reason", reason),
		zap.Error(cause),
	)

	if err := h.dlq.PublishToDLQ(contractmq.RoutingKeyIntegrationEvent, raw, reason+": "+cause.Error()); err != nil {
		h.logger.Error("Failed to publish to DLQ", zap.String("reason", reason), zap.Error(err))
		return fmt.Errorf("publish to dlq: %w", err)
	}
	return nil
}

func toEvent(p contractmq.IntegrationEventPayload) (model.Event, error) {
	req := model.CreateEventRequest{
		ProjectID: p.ProjectID,
		Provider:  p.Provider,
		EventType: p.EventType,
		Severity:  p.Severity,
		Title:     p.Title,
	}
	if len(p.Metadata) > 0 && string(p.Metadata) != "null" {
		if err := json.Unmarshal(p.Metadata, &req.Metadata); err != nil {
			return model.Event{}, model.Invalid("metadata", "must be a JSON object")
		}
	}

	e, err := req.Event()
	if err != nil {
		return model.Event{}, err
	}
	if p.OccurredAt != nil {
		e.CreatedAt = p.OccurredAt.UTC()
	}
	return e, nil
}
