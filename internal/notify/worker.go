package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/jobgrid/jobgrid/internal/events"
)

// Worker consumes portal events from the bus and drives the Notifier. It is
// the asynchronous half of the notification pipeline: HTTP handlers publish
// events and return; the worker does the store writes and email sends.
type Worker struct {
	sub      events.Subscriber
	notifier *Notifier
	logger   *slog.Logger

	cancel context.CancelFunc
	stop   func()
	wg     sync.WaitGroup
}

func NewWorker(sub events.Subscriber, notifier *Notifier, logger *slog.Logger) *Worker {
	return &Worker{
		sub:      sub,
		notifier: notifier,
		logger:   logger,
	}
}

// Start subscribes to all portal events and begins dispatching.
func (w *Worker) Start() error {
	ch, cancelSub, err := w.sub.Subscribe(events.TopicAll)
	if err != nil {
		return err
	}
	w.stop = cancelSub

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for msg := range ch {
			w.dispatch(ctx, msg)
		}
	}()
	return nil
}

// Stop unsubscribes and waits for in-flight dispatches to finish.
func (w *Worker) Stop() {
	if w.stop != nil {
		w.stop()
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Worker) dispatch(ctx context.Context, msg events.Raw) {
	var err error
	switch msg.Topic {
	case events.TopicUserRegistered:
		var ev events.UserRegistered
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = w.notifier.UserRegistered(ctx, ev)
		}
	case events.TopicApplicationReceived:
		var ev events.ApplicationReceived
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = w.notifier.ApplicationReceived(ctx, ev)
		}
	case events.TopicApplicationStatusChanged:
		var ev events.ApplicationStatusChanged
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = w.notifier.ApplicationStatusChanged(ctx, ev)
		}
	case events.TopicJobApproved:
		var ev events.JobApproved
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = w.notifier.JobApproved(ctx, ev)
		}
	case events.TopicJobRejected:
		var ev events.JobRejected
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = w.notifier.JobRejected(ctx, ev)
		}
	default:
		// Other topics (job created/updated/deleted) feed the search indexer,
		// not the notification pipeline.
		return
	}
	if err != nil {
		w.logger.Error("event dispatch failed", "topic", msg.Topic, "err", err)
	}
}
