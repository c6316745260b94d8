package postgres

import (
	"database/sql"

	"github.com/jobgrid/jobgrid/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanUser scans a single row into a model.User.
// The row must contain columns in the order defined by userColumns.
func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var (
		verificationToken sql.NullString
		skills            sql.NullString
		experience        sql.NullString
		resumeKey         sql.NullString
		companyName       sql.NullString
		companyWebsite    sql.NullString
		phone             sql.NullString
	)

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.EmailVerified,
		&verificationToken,
		&skills,
		&experience,
		&resumeKey,
		&companyName,
		&companyWebsite,
		&phone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.VerificationToken = verificationToken.String
	u.Skills = skills.String
	u.Experience = experience.String
	u.ResumeKey = resumeKey.String
	u.CompanyName = companyName.String
	u.CompanyWebsite = companyWebsite.String
	u.Phone = phone.String

	return &u, nil
}

// scanJob scans a single row into a model.Job.
// The row must contain columns in the order defined by jobColumns.
func scanJob(row scannable) (*model.Job, error) {
	var j model.Job
	var requirements sql.NullString

	err := row.Scan(
		&j.ID,
		&j.EmployerID,
		&j.Title,
		&j.Company,
		&j.Description,
		&requirements,
		&j.Location,
		&j.Type,
		&j.Salary,
		&j.Active,
		&j.Approved,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.Requirements = requirements.String
	return &j, nil
}

// scanJobWithTotal scans a list row whose first column is COUNT(*) OVER().
func scanJobWithTotal(row scannable) (*model.Job, int, error) {
	var j model.Job
	var total int
	var requirements sql.NullString

	err := row.Scan(
		&total,
		&j.ID,
		&j.EmployerID,
		&j.Title,
		&j.Company,
		&j.Description,
		&requirements,
		&j.Location,
		&j.Type,
		&j.Salary,
		&j.Active,
		&j.Approved,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	j.Requirements = requirements.String
	return &j, total, nil
}

// scanApplication scans a single joined row into a model.Application.
// The row must contain columns in the order defined by applicationColumns.
func scanApplication(row scannable) (*model.Application, error) {
	var a model.Application
	var coverLetter sql.NullString

	err := row.Scan(
		&a.ID,
		&a.JobID,
		&a.SeekerID,
		&a.ResumeKey,
		&coverLetter,
		&a.Status,
		&a.AppliedAt,
		&a.UpdatedAt,
		&a.JobTitle,
		&a.SeekerEmail,
		&a.SeekerName,
	)
	if err != nil {
		return nil, err
	}

	a.CoverLetter = coverLetter.String
	return &a, nil
}

func collectApplications(rows *sql.Rows) ([]*model.Application, error) {
	var out []*model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanNotification(row scannable) (*model.Notification, error) {
	var n model.Notification
	var actionURL sql.NullString

	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.Read,
		&actionURL,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.ActionURL = actionURL.String
	return &n, nil
}

func scanActivity(row scannable) (*model.Activity, error) {
	var a model.Activity
	var (
		details   sql.NullString
		ipAddress sql.NullString
		userAgent sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Action,
		&details,
		&ipAddress,
		&userAgent,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Details = details.String
	a.IPAddress = ipAddress.String
	a.UserAgent = userAgent.String
	return &a, nil
}

// nullString converts an empty string to a NULL parameter.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
