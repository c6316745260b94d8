package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// subscribeBuffer is the per-subscription channel depth. When a consumer
// lags this far behind, further messages are dropped rather than blocking
// the NATS client callback; the maintenance reindex pass repairs anything
// the search side misses.
const subscribeBuffer = 64

// NATSPublisher sends portal events to NATS, one JSON message per topic.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc}, nil
}

// Publish marshals the event and fires it at the topic. Delivery is
// fire-and-forget; callers treat event publication as best-effort.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", topic, err)
	}
	return p.conn.Publish(topic, data)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// NATSSubscriber feeds portal events to consumers like the notification
// worker. It reconnects indefinitely so a broker restart does not take the
// notification pipeline down with it.
type NATSSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber connects with unbounded reconnects. Additional
// nats.Option values (disconnect handlers and the like) are applied on top.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSSubscriber{conn: nc}, nil
}

// Subscribe delivers raw payloads for the topic, which may be a wildcard
// such as TopicAll ("jobs.>"); each Raw carries the concrete subject so a
// single subscription can dispatch by topic. The returned stop function
// unsubscribes and closes the channel; calling it more than once is safe.
func (s *NATSSubscriber) Subscribe(topic string) (<-chan Raw, func(), error) {
	ch := make(chan Raw, subscribeBuffer)

	var (
		mu     sync.Mutex
		closed bool
		once   sync.Once
	)

	sub, err := s.conn.Subscribe(topic, func(msg *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- Raw{Topic: msg.Subject, Data: msg.Data}:
		default:
			// Consumer is behind; see subscribeBuffer.
		}
	})
	if err != nil {
		close(ch)
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	// Wait for the server to register the subscription, so events published
	// over other connections immediately after this call are not lost.
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(ch)
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	stop := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			mu.Lock()
			closed = true
			mu.Unlock()
			// The callback no longer sends; empty the buffer before closing
			// so an in-flight send never hits a closed channel.
			for {
				select {
				case <-ch:
				default:
					close(ch)
					return
				}
			}
		})
	}

	return ch, stop, nil
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
