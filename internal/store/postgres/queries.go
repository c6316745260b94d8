package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

// userColumns is the column list used for SELECT statements on the users table.
const userColumns = `id, email, password_hash, first_name, last_name, role,
	email_verified, verification_token, skills, experience, resume_key,
	company_name, company_website, phone, created_at, updated_at`

// jobColumns is the column list used for SELECT statements on the jobs table.
const jobColumns = `id, employer_id, title, company, description, requirements,
	location, job_type, salary, is_active, is_approved, created_at, updated_at`

// applicationColumns is the column list used for SELECT statements on the
// applications table, with job title and seeker identity joined in.
const applicationColumns = `a.id, a.job_id, a.seeker_id, a.resume_key, a.cover_letter,
	a.status, a.applied_at, a.updated_at, j.title, u.email,
	TRIM(CONCAT(u.first_name, ' ', u.last_name))`

const applicationJoins = ` FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.seeker_id`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapError converts driver-level errors to the store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return err
}

// --- users ---

func queryCreateUser(ctx context.Context, db executor, u *model.User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name, role,
			email_verified, verification_token, skills, experience, resume_key,
			company_name, company_website, phone, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16
		)`,
		u.ID,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		string(u.Role),
		u.EmailVerified,
		nullString(u.VerificationToken),
		nullString(u.Skills),
		nullString(u.Experience),
		nullString(u.ResumeKey),
		nullString(u.CompanyName),
		nullString(u.CompanyWebsite),
		nullString(u.Phone),
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapError(err)
}

func queryGetUser(ctx context.Context, db executor, id string) (*model.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func queryGetUserByEmail(ctx context.Context, db executor, email string) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func queryGetUserByVerificationToken(ctx context.Context, db executor, token string) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func queryUpdateUser(ctx context.Context, db executor, u *model.User) error {
	res, err := db.ExecContext(ctx, `
		UPDATE users SET
			first_name = $2, last_name = $3, email_verified = $4,
			verification_token = $5, skills = $6, experience = $7, resume_key = $8,
			company_name = $9, company_website = $10, phone = $11,
			password_hash = $12, updated_at = $13
		WHERE id = $1`,
		u.ID,
		u.FirstName,
		u.LastName,
		u.EmailVerified,
		nullString(u.VerificationToken),
		nullString(u.Skills),
		nullString(u.Experience),
		nullString(u.ResumeKey),
		nullString(u.CompanyName),
		nullString(u.CompanyWebsite),
		nullString(u.Phone),
		u.PasswordHash,
		time.Now().UTC(),
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// --- jobs ---

func queryCreateJob(ctx context.Context, db executor, j *model.Job) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO jobs (
			id, employer_id, title, company, description, requirements,
			location, job_type, salary, is_active, is_approved, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13
		)`,
		j.ID,
		j.EmployerID,
		j.Title,
		j.Company,
		j.Description,
		nullString(j.Requirements),
		j.Location,
		string(j.Type),
		string(j.Salary),
		j.Active,
		j.Approved,
		j.CreatedAt,
		j.UpdatedAt,
	)
	return mapError(err)
}

func queryGetJob(ctx context.Context, db executor, id string) (*model.Job, error) {
	row := db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		return nil, mapError(err)
	}
	return j, nil
}

func queryListJobs(ctx context.Context, db executor, filter model.JobFilter) ([]*model.Job, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.EmployerID != "" {
		whereClauses = append(whereClauses, "employer_id = "+nextArg())
		args = append(args, filter.EmployerID)
	}

	if len(filter.Type) > 0 {
		placeholders := make([]string, len(filter.Type))
		for i, t := range filter.Type {
			placeholders[i] = nextArg()
			args = append(args, string(t))
		}
		whereClauses = append(whereClauses, "job_type IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Location != "" {
		p := nextArg()
		whereClauses = append(whereClauses, "location ILIKE '%' || "+p+" || '%'")
		args = append(args, filter.Location)
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE '%%' || %s || '%%' OR company ILIKE '%%' || %s || '%%' OR description ILIKE '%%' || %s || '%%')", p, p, p))
		args = append(args, filter.Search)
	}

	if filter.VisibleOnly {
		whereClauses = append(whereClauses, "is_active AND is_approved")
	}
	if filter.PendingOnly {
		whereClauses = append(whereClauses, "is_active AND NOT is_approved")
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + jobColumns + " FROM jobs" + whereSQL + " ORDER BY " + parseSortClause(filter.Sort)

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	var total int
	for rows.Next() {
		j, t, err := scanJobWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan jobs: %w", err)
		}
		total = t
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, total, nil
}

// sortableJobColumns restricts ORDER BY input to known columns.
var sortableJobColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"company":    true,
	"location":   true,
}

// parseSortClause converts a filter sort value ("title", "-created_at") into
// an ORDER BY clause, falling back to newest-first for unknown columns.
func parseSortClause(sort string) string {
	dir := "ASC"
	col := sort
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		col = sort[1:]
	}
	if !sortableJobColumns[col] {
		return "created_at DESC"
	}
	return col + " " + dir
}

func queryUpdateJob(ctx context.Context, db executor, j *model.Job) error {
	res, err := db.ExecContext(ctx, `
		UPDATE jobs SET
			title = $2, company = $3, description = $4, requirements = $5,
			location = $6, job_type = $7, salary = $8,
			is_active = $9, is_approved = $10, updated_at = $11
		WHERE id = $1`,
		j.ID,
		j.Title,
		j.Company,
		j.Description,
		nullString(j.Requirements),
		j.Location,
		string(j.Type),
		string(j.Salary),
		j.Active,
		j.Approved,
		time.Now().UTC(),
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func queryDeleteJob(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// --- applications ---

func queryCreateApplication(ctx context.Context, db executor, a *model.Application) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO applications (
			id, job_id, seeker_id, resume_key, cover_letter, status, applied_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID,
		a.JobID,
		a.SeekerID,
		a.ResumeKey,
		nullString(a.CoverLetter),
		string(a.Status),
		a.AppliedAt,
		a.UpdatedAt,
	)
	return mapError(err)
}

func queryGetApplication(ctx context.Context, db executor, id string) (*model.Application, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+applicationJoins+` WHERE a.id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func queryListApplicationsByJob(ctx context.Context, db executor, jobID string) ([]*model.Application, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+applicationColumns+applicationJoins+` WHERE a.job_id = $1 ORDER BY a.applied_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func queryListApplicationsBySeeker(ctx context.Context, db executor, seekerID string) ([]*model.Application, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+applicationColumns+applicationJoins+` WHERE a.seeker_id = $1 ORDER BY a.applied_at DESC`, seekerID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func queryUpdateApplicationStatus(ctx context.Context, db executor, id string, status model.ApplicationStatus) (*model.Application, error) {
	_, err := db.ExecContext(ctx,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), time.Now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	return queryGetApplication(ctx, db, id)
}

// --- notifications ---

func queryCreateNotification(ctx context.Context, db executor, n *model.Notification) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, recipient_id, title, message, notification_type, is_read, action_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID,
		n.RecipientID,
		n.Title,
		n.Message,
		string(n.Type),
		n.Read,
		nullString(n.ActionURL),
		n.CreatedAt,
	)
	return mapError(err)
}

func queryListNotifications(ctx context.Context, db executor, recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	q := `SELECT id, recipient_id, title, message, notification_type, is_read, action_url, created_at
		FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		q += ` AND NOT is_read`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, q, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notifications: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func queryCountUnreadNotifications(ctx context.Context, db executor, recipientID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`,
		recipientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func queryMarkNotificationRead(ctx context.Context, db executor, id, recipientID string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func queryMarkAllNotificationsRead(ctx context.Context, db executor, recipientID string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read`,
		recipientID)
	return mapError(err)
}

func queryDeleteReadNotificationsBefore(ctx context.Context, db executor, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read AND created_at < $1`, cutoff)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}

// --- activity ---

func queryRecordActivity(ctx context.Context, db executor, a *model.Activity) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, action, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID,
		a.UserID,
		string(a.Action),
		nullString(a.Details),
		nullString(a.IPAddress),
		nullString(a.UserAgent),
		a.CreatedAt,
	)
	return mapError(err)
}

func queryListActivities(ctx context.Context, db executor, userID string, limit int) ([]*model.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, action, details, ip_address, user_agent, created_at
		FROM activities WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []*model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activities: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// requireRow converts a zero-row exec result into store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
