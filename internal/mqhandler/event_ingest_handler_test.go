package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const projectID = "6f1c2b8e-4a73-4c1e-9d2a-0b5e7f3a9c11"

type fakeStore struct {
	err      error
	inserted []model.Event
}

func (f *fakeStore) Insert(ctx context.Context, e model.Event) (*model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, e)
	return &e, nil
}

type fakeDeduper struct {
	seen     map[string]bool
	released []string
}

func (f *fakeDeduper) AcquireOnce(ctx context.Context, key string) bool {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

func (f *fakeDeduper) Release(ctx context.Context, key string) {
	delete(f.seen, key)
	f.released = append(f.released, key)
}

type fakeDLQ struct {
	err     error
	reasons []string
}

func (f *fakeDLQ) PublishToDLQ(routingKey string, payload []byte, reason string) error {
	if f.err != nil {
		return f.err
	}
	f.reasons = append(f.reasons, reason)
	return nil
}

func payload(t *testing.T, overrides map[string]any) json.RawMessage {
	t.Helper()
	p := map[string]any{
		"external_id": "deploy-42",
		"project_id":  projectID,
		"provider":    "vercel",
		"event_type":  "deployment",
		"severity":    "success",
		"title":       "Production deploy ready",
		"metadata":    map[string]any{"url": "https://example.vercel.app"},
		"occurred_at": "2026-03-10T12:00:00Z",
	}
	for k, v := range overrides {
		p[k] = v
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func newHandler() (*EventIngestHandler, *fakeStore, *fakeDeduper, *fakeDLQ) {
	store, dedup, dlq := &fakeStore{}, &fakeDeduper{}, &fakeDLQ{}
	return NewEventIngestHandler(store, dedup, dlq, zap.NewNop()), store, dedup, dlq
}

func TestHandle_Stores(t *testing.T) {
	h, store, _, dlq := newHandler()

	require.NoError(t, h.Handle(context.Background(), payload(t, nil)))

	require.Len(t, store.inserted, 1)
	e := store.inserted[0]
	assert.Equal(t, model.ProviderVercel, e.Provider)
	assert.Equal(t, model.SeveritySuccess, e.Severity)
	assert.Equal(t, "https://example.vercel.app", e.Link())
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), e.CreatedAt)
	assert.Empty(t, dlq.reasons)
}

func TestHandle_Duplicate(t *testing.T) {
	h, store, _, _ := newHandler()
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, payload(t, nil)))
	require.NoError(t, h.Handle(ctx, payload(t, nil)))
	require.NoError(t, h.Handle(ctx, payload(t, map[string]any{"provider": "github"})))

	assert.Len(t, store.inserted, 2)
}

func TestHandle_NoExternalIDSkipsDedup(t *testing.T) {
	h, store, dedup, _ := newHandler()
	ctx := context.Background()
	raw := payload(t, map[string]any{"external_id": ""})

	require.NoError(t, h.Handle(ctx, raw))
	require.NoError(t, h.Handle(ctx, raw))

	assert.Len(t, store.inserted, 2)
	assert.Empty(t, dedup.seen)
}

func TestHandle_InvalidGoesToDLQ(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"bad json", json.RawMessage(`{"project_id":`)},
		{"bad provider", payload(t, map[string]any{"provider": "jira"})},
		{"bad severity", payload(t, map[string]any{"severity": "fatal"})},
		{"bad project id", payload(t, map[string]any{"project_id": "p1"})},
		{"missing title", payload(t, map[string]any{"title": " "})},
		{"metadata not object", payload(t, map[string]any{"metadata": []int{1}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store, _, dlq := newHandler()
			assert.NoError(t, h.Handle(context.Background(), tt.raw))
			assert.Empty(t, store.inserted)
			assert.Len(t, dlq.reasons, 1)
		})
	}
}

func TestHandle_DLQFailureRequeues(t *testing.T) {
	h, _, _, dlq := newHandler()
	dlq.err = errors.New("channel closed")

	assert.Error(t, h.Handle(context.Background(), json.RawMessage(`nope`)))
}

func TestHandle_RetryableStorageError(t *testing.T) {
	h, store, dedup, dlq := newHandler()
	store.err = errors.New("connection reset")

	err := h.Handle(context.Background(), payload(t, nil))

	assert.Error(t, err)
	assert.Equal(t, []string{"event:vercel:deploy-42"}, dedup.released)
	assert.Empty(t, dlq.reasons)

	// redelivery is not treated as a duplicate
	store.err = nil
	require.NoError(t, h.Handle(context.Background(), payload(t, nil)))
	assert.Len(t, store.inserted, 1)
}

func TestHandle_PermanentStorageError(t *testing.T) {
	h, store, dedup, dlq := newHandler()
	store.err = &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}

	assert.NoError(t, h.Handle(context.Background(), payload(t, nil)))
	assert.Len(t, dedup.released, 1)
	require.Len(t, dlq.reasons, 1)
	assert.Contains(t, dlq.reasons[0], "foreign_key_violation")
}
