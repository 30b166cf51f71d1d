package mq

import (
	"encoding/json"
	"time"
)

// RoutingKeyIntegrationEvent carries provider webhooks normalized by the edge.
const RoutingKeyIntegrationEvent = "integration.event"

// IntegrationEventPayload is one provider event destined for the events cache.
type IntegrationEventPayload struct {
	ExternalID string          `json:"external_id"`
	ProjectID  string          `json:"project_id"`
	Provider   string          `json:"provider"`
	EventType  string          `json:"event_type"`
	Severity   string          `json:"severity"`
	Title      string          `json:"title"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
}
