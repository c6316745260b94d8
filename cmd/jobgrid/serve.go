package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobgrid/jobgrid/internal/auth"
	"github.com/jobgrid/jobgrid/internal/cache"
	"github.com/jobgrid/jobgrid/internal/config"
	"github.com/jobgrid/jobgrid/internal/events"
	"github.com/jobgrid/jobgrid/internal/mail"
	"github.com/jobgrid/jobgrid/internal/maintenance"
	"github.com/jobgrid/jobgrid/internal/notify"
	"github.com/jobgrid/jobgrid/internal/resume"
	"github.com/jobgrid/jobgrid/internal/search"
	"github.com/jobgrid/jobgrid/internal/server"
	"github.com/jobgrid/jobgrid/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JobGrid API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = events.NoopPublisher{}
			logger.Info("events disabled (JOBGRID_NATS_URL not set)")
		}

		// Search indexer.
		var indexer search.Indexer = search.Noop{}
		if cfg.SearchURL != "" {
			indexer = search.NewClient(cfg.SearchURL)
			logger.Info("search indexing enabled", "url", cfg.SearchURL)
		} else {
			logger.Info("search indexing disabled (JOBGRID_SEARCH_URL not set)")
		}

		// Unread-count cache.
		var unread *cache.UnreadCounts
		if cfg.RedisAddr != "" {
			unread = cache.New(cfg.RedisAddr, store.CountUnreadNotifications)
			logger.Info("unread cache enabled", "redis_addr", cfg.RedisAddr)
		}

		// Resume storage.
		var resumes resume.Storage
		if cfg.ResumeS3Bucket != "" {
			resumes, err = resume.NewS3Storage(context.Background(),
				cfg.ResumeS3Bucket, cfg.ResumeS3Region, cfg.ResumeS3Endpoint)
			if err != nil {
				publisher.Close()
				store.Close()
				return err
			}
			logger.Info("resume storage: S3", "bucket", cfg.ResumeS3Bucket)
		} else {
			resumes, err = resume.NewLocalStorage(cfg.ResumeDir)
			if err != nil {
				publisher.Close()
				store.Close()
				return err
			}
			logger.Info("resume storage: local", "dir", cfg.ResumeDir)
		}

		// Mail backend.
		var mailer mail.Mailer
		switch cfg.MailBackend {
		case "smtp":
			mailer = mail.SMTPMailer{
				Addr:     cfg.SMTPAddr,
				From:     cfg.MailFrom,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
			}
			logger.Info("mail backend: smtp", "addr", cfg.SMTPAddr)
		default:
			mailer = mail.ConsoleMailer{Out: os.Stderr}
			logger.Info("mail backend: console")
		}

		tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

		// HTTP server.
		portal := server.NewPortalServer(store, publisher, indexer, tokens, resumes, unreadOrNil(unread))
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: portal.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Notification worker, fed by the event bus.
		var worker *notify.Worker
		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create notification subscriber", "err", err)
			} else {
				notifier := notify.New(store, mailer, unreadOrNil(unread), cfg.SiteURL, logger)
				worker = notify.NewWorker(sub, notifier, logger)
				if err := worker.Start(); err != nil {
					logger.Error("failed to start notification worker", "err", err)
					worker = nil
					sub.Close()
				} else {
					logger.Info("notification worker started")
				}
			}
		}

		// Maintenance scheduler.
		var scheduler *maintenance.Scheduler
		if cfg.MaintenanceInterval > 0 {
			scheduler = maintenance.NewScheduler(store, indexer,
				cfg.MaintenanceInterval, cfg.NotifRetention, logger)
			scheduler.Start()
			logger.Info("maintenance scheduler started", "interval", cfg.MaintenanceInterval)
		}

		logger.Info("jobgrid server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if worker != nil {
			worker.Stop()
			logger.Info("notification worker stopped")
		}
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("maintenance scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if unread != nil {
			if err := unread.Close(); err != nil {
				logger.Error("error closing unread cache", "err", err)
			}
		}
		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// unreadOrNil avoids handing a typed nil to interface fields.
func unreadOrNil(u *cache.UnreadCounts) server.UnreadCache {
	if u == nil {
		return nil
	}
	return u
}
