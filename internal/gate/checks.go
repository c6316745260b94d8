package gate

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// TCPCheck succeeds once a TCP connection to Addr can be established.
type TCPCheck struct {
	Addr string
}

// Check dials the address, honoring the context deadline.
func (c TCPCheck) Check(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.Addr, err)
	}
	return conn.Close()
}

// HTTPCheck succeeds once a GET to URL returns a 2xx status.
type HTTPCheck struct {
	URL string
	// Client defaults to http.DefaultClient; the per-attempt context bounds
	// the request either way.
	Client *http.Client
}

// Check issues the request and inspects the status code.
func (c HTTPCheck) Check(ctx context.Context) error {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", c.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("get %s: status %d", c.URL, resp.StatusCode)
	}
	return nil
}

// RedisCheck succeeds once the Redis server at Addr answers PING.
type RedisCheck struct {
	Addr string
}

// Check opens a client, pings, and closes.
func (c RedisCheck) Check(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{Addr: c.Addr})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping %s: %w", c.Addr, err)
	}
	return nil
}

// PostgresCheck succeeds once the database at URL accepts a connection ping.
type PostgresCheck struct {
	URL string
}

// Check opens a throwaway connection and pings it.
func (c PostgresCheck) Check(ctx context.Context) error {
	db, err := sql.Open("postgres", c.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// NATSCheck succeeds once the NATS server at URL accepts a connection.
type NATSCheck struct {
	URL string
}

// Check connects without retry and closes immediately.
func (c NATSCheck) Check(ctx context.Context) error {
	timeout := nats.DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 {
			timeout = d
		}
	}
	nc, err := nats.Connect(c.URL, nats.Timeout(timeout), nats.RetryOnFailedConnect(false))
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.URL, err)
	}
	nc.Close()
	return nil
}
