// Package gate blocks process startup until external service dependencies
// are reachable, then hands execution off to the wrapped command.
package gate

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Checker reports the availability of one external dependency.
// Implementations must be safe for concurrent use.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc func(ctx context.Context) error

// Check calls f.
func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// Default probe parameters.
const (
	DefaultInterval = time.Second
	DefaultTimeout  = 30 * time.Second
)

// Dependency describes how to probe one external service.
type Dependency struct {
	// Name identifies the dependency in progress output and errors.
	Name string
	// Check performs a single availability probe.
	Check Checker
	// Interval is the delay between failed attempts. Defaults to 1s.
	Interval time.Duration
	// Timeout bounds a single attempt. Defaults to 30s.
	Timeout time.Duration
	// MaxAttempts bounds the retry loop. Zero or negative means retry forever.
	MaxAttempts int
}

// UnreachableError reports a dependency whose retry budget was exhausted.
type UnreachableError struct {
	Name     string
	Attempts int
	Last     error
}

// Error names the unreachable dependency and its last probe failure.
func (e *UnreachableError) Error() string {
	return fmt.Sprintf("dependency %q unreachable after %d attempts: %v", e.Name, e.Attempts, e.Last)
}

// Unwrap returns the last probe error.
func (e *UnreachableError) Unwrap() error { return e.Last }

// Gate waits for a set of dependencies to become reachable.
type Gate struct {
	deps []Dependency
	out  io.Writer

	// sleep waits between attempts; injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Gate.
type Option func(*Gate)

// WithOutput directs progress lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(g *Gate) { g.out = w }
}

// WithSleep replaces the inter-attempt delay function.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Gate) { g.sleep = fn }
}

// New returns a Gate over the given dependencies.
func New(deps []Dependency, opts ...Option) *Gate {
	g := &Gate{
		deps:  deps,
		out:   os.Stdout,
		sleep: sleepCtx,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run probes each dependency in declaration order, blocking on each until it
// reports success before moving to the next. It returns nil once every
// dependency has been confirmed reachable, an *UnreachableError when a
// bounded dependency exhausts its attempts, or the context error on cancel.
func (g *Gate) Run(ctx context.Context) error {
	for _, dep := range g.deps {
		if err := g.await(ctx, dep); err != nil {
			return err
		}
	}
	return nil
}

// RunConcurrent probes all dependencies in parallel, each with its own retry
// budget, and returns once every probe has succeeded. The first failure is
// returned; remaining probes are canceled.
func (g *Gate) RunConcurrent(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(g.deps))
	var wg sync.WaitGroup
	for _, dep := range g.deps {
		wg.Add(1)
		go func(dep Dependency) {
			defer wg.Done()
			if err := g.await(ctx, dep); err != nil {
				errCh <- err
				cancel()
			}
		}(dep)
	}
	wg.Wait()
	close(errCh)

	return <-errCh
}

// await retries a single dependency until it succeeds, its attempt budget
// runs out, or the context is canceled.
func (g *Gate) await(ctx context.Context, dep Dependency) error {
	interval := dep.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := dep.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := dep.Check.Check(attemptCtx)
		cancel()

		if err == nil {
			fmt.Fprintf(g.out, "%s is up and running\n", dep.Name)
			return nil
		}
		lastErr = err

		fmt.Fprintf(g.out, "Waiting for %s connection...\n", dep.Name)

		if dep.MaxAttempts > 0 && attempt >= dep.MaxAttempts {
			return &UnreachableError{Name: dep.Name, Attempts: attempt, Last: lastErr}
		}

		if err := g.sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// sleepCtx waits for d or until the context is canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
