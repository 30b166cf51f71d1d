package mq

const (
	// EventsExchange is the durable topic exchange integrations publish to.
	EventsExchange = "events"
	// DeadLetterExchange receives events the worker gave up on.
	DeadLetterExchange = "integration.event.dlq"
)
