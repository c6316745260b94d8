// Package maintenance runs the portal's periodic housekeeping: purging old
// read notifications and reconciling the search index with the job store.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/search"
	"github.com/jobgrid/jobgrid/internal/store"
)

// reindexPageSize bounds how many jobs a single reindex pass loads at once.
const reindexPageSize = 200

// Scheduler runs maintenance on a fixed interval.
type Scheduler struct {
	store     store.Store
	indexer   search.Indexer
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler. Read notifications older than retention
// are deleted on each pass.
func NewScheduler(s store.Store, indexer search.Indexer, interval, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:     s,
		indexer:   indexer,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

// Start begins periodic maintenance. It runs an initial pass immediately,
// then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current pass (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	purged := s.purgeNotifications(ctx)
	indexed := s.reindexJobs(ctx)
	s.logger.Info("maintenance completed", "notifications_purged", purged, "jobs_reindexed", indexed)
}

func (s *Scheduler) purgeNotifications(ctx context.Context) int64 {
	cutoff := time.Now().Add(-s.retention)
	n, err := s.store.DeleteReadNotificationsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("notification purge failed", "err", err)
		return 0
	}
	return n
}

// reindexJobs pushes every visible job into the search index, repairing any
// documents lost to missed events or index resets.
func (s *Scheduler) reindexJobs(ctx context.Context) int {
	indexed := 0
	for offset := 0; ; offset += reindexPageSize {
		jobs, total, err := s.store.ListJobs(ctx, model.JobFilter{
			VisibleOnly: true,
			Limit:       reindexPageSize,
			Offset:      offset,
		})
		if err != nil {
			s.logger.Error("reindex listing failed", "offset", offset, "err", err)
			return indexed
		}
		for _, job := range jobs {
			if err := s.indexer.IndexJob(ctx, job); err != nil {
				s.logger.Error("reindex failed", "job", job.ID, "err", err)
				continue
			}
			indexed++
		}
		if offset+len(jobs) >= total || len(jobs) == 0 {
			return indexed
		}
	}
}
