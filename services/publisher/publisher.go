package publisher

import "context"

// Publisher publishes collected offers to downstream consumers
type Publisher interface {
	// Publish publishes a message under key to one of the streams
	Publish(ctx context.Context, key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}

// NopPublisher drops every message. It is used when no Redis address is
// configured and for dry runs.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key string, message []byte) error { return nil }
func (NopPublisher) TrimStreams(ctx context.Context) error                         { return nil }
func (NopPublisher) Close() error                                                  { return nil }
