// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *model.User) error {
	return queryCreateUser(ctx, s.db, user)
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return queryGetUser(ctx, s.db, id)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return queryGetUserByEmail(ctx, s.db, email)
}

func (s *PostgresStore) GetUserByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return queryGetUserByVerificationToken(ctx, s.db, token)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *model.User) error {
	return queryUpdateUser(ctx, s.db, user)
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *model.Job) error {
	return queryCreateJob(ctx, s.db, job)
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	return queryGetJob(ctx, s.db, id)
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.Job, int, error) {
	return queryListJobs(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateJob(ctx context.Context, job *model.Job) error {
	return queryUpdateJob(ctx, s.db, job)
}

func (s *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	return queryDeleteJob(ctx, s.db, id)
}

func (s *PostgresStore) CreateApplication(ctx context.Context, app *model.Application) error {
	return queryCreateApplication(ctx, s.db, app)
}

func (s *PostgresStore) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	return queryGetApplication(ctx, s.db, id)
}

func (s *PostgresStore) ListApplicationsByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	return queryListApplicationsByJob(ctx, s.db, jobID)
}

func (s *PostgresStore) ListApplicationsBySeeker(ctx context.Context, seekerID string) ([]*model.Application, error) {
	return queryListApplicationsBySeeker(ctx, s.db, seekerID)
}

func (s *PostgresStore) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	return queryUpdateApplicationStatus(ctx, s.db, id, status)
}

func (s *PostgresStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return queryCreateNotification(ctx, s.db, n)
}

func (s *PostgresStore) ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	return queryListNotifications(ctx, s.db, recipientID, unreadOnly)
}

func (s *PostgresStore) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	return queryCountUnreadNotifications(ctx, s.db, recipientID)
}

func (s *PostgresStore) MarkNotificationRead(ctx context.Context, id, recipientID string) error {
	return queryMarkNotificationRead(ctx, s.db, id, recipientID)
}

func (s *PostgresStore) MarkAllNotificationsRead(ctx context.Context, recipientID string) error {
	return queryMarkAllNotificationsRead(ctx, s.db, recipientID)
}

func (s *PostgresStore) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return queryDeleteReadNotificationsBefore(ctx, s.db, cutoff)
}

func (s *PostgresStore) RecordActivity(ctx context.Context, a *model.Activity) error {
	return queryRecordActivity(ctx, s.db, a)
}

func (s *PostgresStore) ListActivities(ctx context.Context, userID string, limit int) ([]*model.Activity, error) {
	return queryListActivities(ctx, s.db, userID, limit)
}
