package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // JOBGRID_DATABASE_URL (required)
	HTTPAddr    string // JOBGRID_HTTP_ADDR (default ":8080")
	NATSURL     string // JOBGRID_NATS_URL (optional, empty = no events)
	RedisAddr   string // JOBGRID_REDIS_ADDR (optional, empty = no unread cache)
	SearchURL   string // JOBGRID_SEARCH_URL (optional, empty = no search indexing)
	SiteURL     string // JOBGRID_SITE_URL (default "http://localhost:8080", used in emails)

	// Auth settings
	JWTSecret string        // JOBGRID_JWT_SECRET (required)
	TokenTTL  time.Duration // JOBGRID_TOKEN_TTL (default 24h)

	// Mail settings
	MailBackend  string // JOBGRID_MAIL_BACKEND ("console" or "smtp", default "console")
	MailFrom     string // JOBGRID_MAIL_FROM (default "noreply@jobgrid.local")
	SMTPAddr     string // JOBGRID_SMTP_ADDR (required when backend is "smtp")
	SMTPUsername string // JOBGRID_SMTP_USERNAME (optional)
	SMTPPassword string // JOBGRID_SMTP_PASSWORD (optional)

	// Resume storage
	ResumeDir        string // JOBGRID_RESUME_DIR (default "./resumes"; ignored when S3 is set)
	ResumeS3Bucket   string // JOBGRID_RESUME_S3_BUCKET (enables S3 when set)
	ResumeS3Region   string // JOBGRID_RESUME_S3_REGION (default "us-east-1")
	ResumeS3Endpoint string // JOBGRID_RESUME_S3_ENDPOINT (custom endpoint for MinIO)

	// Maintenance settings
	MaintenanceInterval time.Duration // JOBGRID_MAINTENANCE_INTERVAL (default 1h; 0 = disabled)
	NotifRetention      time.Duration // JOBGRID_NOTIF_RETENTION (default 720h; read notifications older than this are purged)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("JOBGRID_DATABASE_URL"),
		HTTPAddr:         envOrDefault("JOBGRID_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("JOBGRID_NATS_URL"),
		RedisAddr:        os.Getenv("JOBGRID_REDIS_ADDR"),
		SearchURL:        os.Getenv("JOBGRID_SEARCH_URL"),
		SiteURL:          envOrDefault("JOBGRID_SITE_URL", "http://localhost:8080"),
		JWTSecret:        os.Getenv("JOBGRID_JWT_SECRET"),
		MailBackend:      envOrDefault("JOBGRID_MAIL_BACKEND", "console"),
		MailFrom:         envOrDefault("JOBGRID_MAIL_FROM", "noreply@jobgrid.local"),
		SMTPAddr:         os.Getenv("JOBGRID_SMTP_ADDR"),
		SMTPUsername:     os.Getenv("JOBGRID_SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("JOBGRID_SMTP_PASSWORD"),
		ResumeDir:        envOrDefault("JOBGRID_RESUME_DIR", "./resumes"),
		ResumeS3Bucket:   os.Getenv("JOBGRID_RESUME_S3_BUCKET"),
		ResumeS3Region:   envOrDefault("JOBGRID_RESUME_S3_REGION", "us-east-1"),
		ResumeS3Endpoint: os.Getenv("JOBGRID_RESUME_S3_ENDPOINT"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("JOBGRID_DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("JOBGRID_JWT_SECRET is required")
	}
	switch c.MailBackend {
	case "console":
	case "smtp":
		if c.SMTPAddr == "" {
			return nil, fmt.Errorf("JOBGRID_SMTP_ADDR is required when JOBGRID_MAIL_BACKEND=smtp")
		}
	default:
		return nil, fmt.Errorf("JOBGRID_MAIL_BACKEND: unknown backend %q", c.MailBackend)
	}

	var err error
	if c.TokenTTL, err = durationEnv("JOBGRID_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if c.MaintenanceInterval, err = durationEnv("JOBGRID_MAINTENANCE_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if c.NotifRetention, err = durationEnv("JOBGRID_NOTIF_RETENTION", 720*time.Hour); err != nil {
		return nil, err
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
