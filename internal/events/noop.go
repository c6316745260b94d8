package events

import "context"

// NoopPublisher discards all events. Used when the portal runs without a
// message bus (e.g. in tests or single-process deployments).
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic string, event any) error { return nil }

func (NoopPublisher) Close() error { return nil }
