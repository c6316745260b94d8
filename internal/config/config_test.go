package config

import (
	"testing"
	"time"
)

var allEnvVars = []string{
	"JOBGRID_DATABASE_URL", "JOBGRID_HTTP_ADDR", "JOBGRID_NATS_URL",
	"JOBGRID_REDIS_ADDR", "JOBGRID_SEARCH_URL", "JOBGRID_SITE_URL",
	"JOBGRID_JWT_SECRET", "JOBGRID_TOKEN_TTL",
	"JOBGRID_MAIL_BACKEND", "JOBGRID_MAIL_FROM", "JOBGRID_SMTP_ADDR",
	"JOBGRID_SMTP_USERNAME", "JOBGRID_SMTP_PASSWORD",
	"JOBGRID_RESUME_DIR", "JOBGRID_RESUME_S3_BUCKET",
	"JOBGRID_RESUME_S3_REGION", "JOBGRID_RESUME_S3_ENDPOINT",
	"JOBGRID_MAINTENANCE_INTERVAL", "JOBGRID_NOTIF_RETENTION",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JOBGRID_DATABASE_URL", "postgres://localhost/jobgrid")
	t.Setenv("JOBGRID_JWT_SECRET", "test-secret")
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{"JOBGRID_JWT_SECRET": "s"},
			wantErr: true,
		},
		{
			name:    "MissingJWTSecret",
			env:     map[string]string{"JOBGRID_DATABASE_URL": "postgres://localhost/jobgrid"},
			wantErr: true,
		},
		{
			name: "RequiredOnly",
			env: map[string]string{
				"JOBGRID_DATABASE_URL": "postgres://localhost/jobgrid",
				"JOBGRID_JWT_SECRET":   "s",
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.HTTPAddr != ":8080" {
				t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
			}
			if cfg.SiteURL != "http://localhost:8080" {
				t.Errorf("SiteURL = %q", cfg.SiteURL)
			}
			if cfg.MailBackend != "console" {
				t.Errorf("MailBackend = %q, want console", cfg.MailBackend)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAllEnv(t)
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.MaintenanceInterval != time.Hour {
		t.Errorf("MaintenanceInterval = %v, want 1h", cfg.MaintenanceInterval)
	}
	if cfg.NotifRetention != 720*time.Hour {
		t.Errorf("NotifRetention = %v, want 720h", cfg.NotifRetention)
	}
	if cfg.ResumeDir != "./resumes" {
		t.Errorf("ResumeDir = %q", cfg.ResumeDir)
	}
	if cfg.ResumeS3Region != "us-east-1" {
		t.Errorf("ResumeS3Region = %q", cfg.ResumeS3Region)
	}
}

func TestLoadCustom(t *testing.T) {
	clearAllEnv(t)
	setRequired(t)
	t.Setenv("JOBGRID_HTTP_ADDR", ":3000")
	t.Setenv("JOBGRID_NATS_URL", "nats://localhost:4222")
	t.Setenv("JOBGRID_REDIS_ADDR", "localhost:6379")
	t.Setenv("JOBGRID_SEARCH_URL", "http://localhost:9200")
	t.Setenv("JOBGRID_TOKEN_TTL", "2h")
	t.Setenv("JOBGRID_MAINTENANCE_INTERVAL", "30m")
	t.Setenv("JOBGRID_RESUME_S3_BUCKET", "resumes")
	t.Setenv("JOBGRID_RESUME_S3_ENDPOINT", "http://minio:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.MaintenanceInterval != 30*time.Minute {
		t.Errorf("MaintenanceInterval = %v", cfg.MaintenanceInterval)
	}
	if cfg.ResumeS3Bucket != "resumes" {
		t.Errorf("ResumeS3Bucket = %q", cfg.ResumeS3Bucket)
	}
	if cfg.ResumeS3Endpoint != "http://minio:9000" {
		t.Errorf("ResumeS3Endpoint = %q", cfg.ResumeS3Endpoint)
	}
}

func TestLoadMailBackends(t *testing.T) {
	t.Run("SMTPRequiresAddr", func(t *testing.T) {
		clearAllEnv(t)
		setRequired(t)
		t.Setenv("JOBGRID_MAIL_BACKEND", "smtp")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for smtp backend without JOBGRID_SMTP_ADDR")
		}
	})

	t.Run("SMTPWithAddr", func(t *testing.T) {
		clearAllEnv(t)
		setRequired(t)
		t.Setenv("JOBGRID_MAIL_BACKEND", "smtp")
		t.Setenv("JOBGRID_SMTP_ADDR", "mail.example.com:587")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SMTPAddr != "mail.example.com:587" {
			t.Errorf("SMTPAddr = %q", cfg.SMTPAddr)
		}
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		clearAllEnv(t)
		setRequired(t)
		t.Setenv("JOBGRID_MAIL_BACKEND", "carrier-pigeon")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown mail backend")
		}
	})
}

func TestLoadInvalidDuration(t *testing.T) {
	clearAllEnv(t)
	setRequired(t)
	t.Setenv("JOBGRID_TOKEN_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid JOBGRID_TOKEN_TTL")
	}
}
