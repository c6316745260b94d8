package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRoleIsValid(t *testing.T) {
	for _, tc := range []struct {
		role Role
		want bool
	}{
		{RoleSeeker, true},
		{RoleEmployer, true},
		{RoleAdmin, true},
		{Role("manager"), false},
		{Role(""), false},
	} {
		if got := tc.role.IsValid(); got != tc.want {
			t.Errorf("Role(%q).IsValid() = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestUserFullName(t *testing.T) {
	for _, tc := range []struct {
		name string
		user User
		want string
	}{
		{"both names", User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, "Ada Lovelace"},
		{"first only", User{FirstName: "Ada", Email: "ada@example.com"}, "Ada"},
		{"email fallback", User{Email: "ada@example.com"}, "ada@example.com"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.FullName(); got != tc.want {
				t.Errorf("FullName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestJobVisible(t *testing.T) {
	for _, tc := range []struct {
		name     string
		active   bool
		approved bool
		want     bool
	}{
		{"active approved", true, true, true},
		{"active unapproved", true, false, false},
		{"inactive approved", false, true, false},
		{"inactive unapproved", false, false, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			j := Job{Active: tc.active, Approved: tc.approved}
			if got := j.Visible(); got != tc.want {
				t.Errorf("Visible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidateUser(t *testing.T) {
	valid := User{
		ID:        "jg-abc",
		Email:     "dev@example.com",
		Role:      RoleSeeker,
		CreatedAt: time.Now(),
	}
	if err := ValidateUser(&valid); err != nil {
		t.Errorf("valid user rejected: %v", err)
	}

	for _, tc := range []struct {
		name  string
		mod   func(*User)
		field string
	}{
		{"missing email", func(u *User) { u.Email = "" }, "email"},
		{"bad email", func(u *User) { u.Email = "not-an-address" }, "email"},
		{"bad role", func(u *User) { u.Role = "wizard" }, "role"},
		{"employer without company", func(u *User) { u.Role = RoleEmployer }, "company_name"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			u := valid
			tc.mod(&u)
			err := ValidateUser(&u)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not mention field %q", err, tc.field)
			}
		})
	}
}

func TestValidateJob(t *testing.T) {
	valid := Job{
		EmployerID:  "jg-emp",
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Build things.",
		Location:    "Remote",
		Type:        JobTypeFullTime,
		Salary:      SalaryNegotiable,
	}
	if err := ValidateJob(&valid); err != nil {
		t.Errorf("valid job rejected: %v", err)
	}

	long := strings.Repeat("x", 101)
	for _, tc := range []struct {
		name  string
		mod   func(*Job)
		field string
	}{
		{"missing title", func(j *Job) { j.Title = "  " }, "title"},
		{"long title", func(j *Job) { j.Title = long }, "title"},
		{"missing company", func(j *Job) { j.Company = "" }, "company"},
		{"missing description", func(j *Job) { j.Description = "" }, "description"},
		{"missing location", func(j *Job) { j.Location = "" }, "location"},
		{"bad type", func(j *Job) { j.Type = "gig" }, "job_type"},
		{"bad salary", func(j *Job) { j.Salary = "1-2" }, "salary"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			j := valid
			tc.mod(&j)
			if err := ValidateJob(&j); err == nil {
				t.Fatal("expected validation error, got nil")
			} else if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not mention field %q", err, tc.field)
			}
		})
	}
}

func TestValidateApplication(t *testing.T) {
	valid := Application{
		JobID:     "jg-job",
		SeekerID:  "jg-user",
		ResumeKey: "resumes/resume_job_1_user_2.pdf",
		Status:    ApplicationPending,
	}
	if err := ValidateApplication(&valid); err != nil {
		t.Errorf("valid application rejected: %v", err)
	}

	a := valid
	a.ResumeKey = ""
	if err := ValidateApplication(&a); err == nil || !strings.Contains(err.Error(), "resume") {
		t.Errorf("expected resume error, got %v", err)
	}
}
