package gate

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedCheck fails a fixed number of times before succeeding, recording
// the name of every probe in a shared log.
type scriptedCheck struct {
	name     string
	failures int

	mu    sync.Mutex
	calls int
	log   *probeLog
}

type probeLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *probeLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, name)
}

func (l *probeLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (c *scriptedCheck) Check(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.log != nil {
		c.log.record(c.name)
	}
	c.calls++
	if c.calls <= c.failures {
		return errors.New("connection refused")
	}
	return nil
}

// noSleep advances without waiting so retry loops run instantly in tests.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func TestRun_AllReachableImmediately(t *testing.T) {
	var out bytes.Buffer
	g := New([]Dependency{
		{Name: "cache", Check: &scriptedCheck{name: "cache"}},
		{Name: "search", Check: &scriptedCheck{name: "search"}},
	}, WithOutput(&out), WithSleep(noSleep))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := "cache is up and running\nsearch is up and running\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_RetriesThenSucceeds(t *testing.T) {
	var out bytes.Buffer
	g := New([]Dependency{
		{Name: "cache", Check: &scriptedCheck{name: "cache", failures: 3}},
	}, WithOutput(&out), WithSleep(noSleep))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	waiting := strings.Count(out.String(), "Waiting for cache connection...")
	if waiting != 3 {
		t.Errorf("waiting lines = %d, want 3\noutput:\n%s", waiting, out.String())
	}
	if !strings.HasSuffix(out.String(), "cache is up and running\n") {
		t.Errorf("missing success line:\n%s", out.String())
	}
}

func TestRun_StrictOrdering(t *testing.T) {
	log := &probeLog{}
	g := New([]Dependency{
		{Name: "cache", Check: &scriptedCheck{name: "cache", failures: 2, log: log}},
		{Name: "search", Check: &scriptedCheck{name: "search", log: log}},
	}, WithOutput(&bytes.Buffer{}), WithSleep(noSleep))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	entries := log.snapshot()
	// search must never be probed before cache has succeeded.
	for i, name := range entries {
		if name == "search" {
			if got := entries[:i]; len(got) != 3 {
				t.Errorf("search probed after %d cache probes, want 3: %v", len(got), entries)
			}
			break
		}
	}
}

func TestRun_BoundedRetryExhaustion(t *testing.T) {
	var out bytes.Buffer
	log := &probeLog{}
	g := New([]Dependency{
		{Name: "search", Check: &scriptedCheck{name: "search", failures: 1 << 30}, MaxAttempts: 5},
		{Name: "never", Check: &scriptedCheck{name: "never", log: log}},
	}, WithOutput(&out), WithSleep(noSleep))

	err := g.Run(context.Background())
	var ue *UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnreachableError, got %v", err)
	}
	if ue.Name != "search" || ue.Attempts != 5 {
		t.Errorf("UnreachableError = %+v", ue)
	}
	// A failed dependency must block everything declared after it.
	if entries := log.snapshot(); len(entries) != 0 {
		t.Errorf("later dependency was probed despite failure: %v", entries)
	}
	if strings.Contains(out.String(), "up and running") {
		t.Errorf("success line emitted for unreachable dependency:\n%s", out.String())
	}
}

func TestRun_UnboundedRetryNeverGivesUp(t *testing.T) {
	// Cancel the context after a fixed number of sleeps; within that window
	// the gate must neither return success nor exhaust.
	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	sleep := func(ctx context.Context, _ time.Duration) error {
		sleeps++
		if sleeps >= 50 {
			cancel()
		}
		return ctx.Err()
	}

	g := New([]Dependency{
		{Name: "cache", Check: &scriptedCheck{name: "cache", failures: 1 << 30}},
	}, WithOutput(&bytes.Buffer{}), WithSleep(sleep))

	err := g.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var ue *UnreachableError
	if errors.As(err, &ue) {
		t.Error("unbounded dependency must not produce UnreachableError")
	}
	if sleeps < 50 {
		t.Errorf("gate stopped retrying after %d sleeps", sleeps)
	}
}

func TestRun_EmptyDependencyList(t *testing.T) {
	var out bytes.Buffer
	g := New(nil, WithOutput(&out), WithSleep(noSleep))
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output for empty list: %q", out.String())
	}
}

func TestRunConcurrent_AllSucceed(t *testing.T) {
	var out bytes.Buffer
	g := New([]Dependency{
		{Name: "cache", Check: &scriptedCheck{name: "cache", failures: 2}},
		{Name: "search", Check: &scriptedCheck{name: "search", failures: 1}},
		{Name: "db", Check: &scriptedCheck{name: "db"}},
	}, WithOutput(&out), WithSleep(noSleep))

	if err := g.RunConcurrent(context.Background()); err != nil {
		t.Fatalf("RunConcurrent() error: %v", err)
	}

	for _, name := range []string{"cache", "search", "db"} {
		if !strings.Contains(out.String(), name+" is up and running") {
			t.Errorf("missing success line for %s:\n%s", name, out.String())
		}
	}
}

func TestRunConcurrent_FailureCancelsRest(t *testing.T) {
	g := New([]Dependency{
		{Name: "bad", Check: &scriptedCheck{name: "bad", failures: 1 << 30}, MaxAttempts: 2},
		{Name: "slow", Check: &scriptedCheck{name: "slow", failures: 1 << 30}},
	}, WithOutput(&bytes.Buffer{}), WithSleep(noSleep))

	err := g.RunConcurrent(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var ue *UnreachableError
	if errors.As(err, &ue) && ue.Name != "bad" {
		t.Errorf("UnreachableError.Name = %q, want %q", ue.Name, "bad")
	}
}

func TestHandoff_UnknownCommand(t *testing.T) {
	err := Handoff([]string{"definitely-not-a-real-binary-name"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("error = %v", err)
	}
}

func TestHandoff_EmptyArgv(t *testing.T) {
	if err := Handoff(nil); err == nil {
		t.Fatal("expected error for empty argv")
	}
}
