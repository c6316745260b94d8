package model

import "time"

// JobType categorizes the employment arrangement of a listing.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

// String returns the string representation of the job type.
func (t JobType) String() string {
	return string(t)
}

// IsValid checks whether the job type is a known value.
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return true
	}
	return false
}

// SalaryBand is a coarse advertised salary range.
type SalaryBand string

const (
	SalaryNegotiable SalaryBand = "negotiable"
	Salary10to30     SalaryBand = "10000-30000"
	Salary30to50     SalaryBand = "30000-50000"
	Salary50to70     SalaryBand = "50000-70000"
	Salary70to90     SalaryBand = "70000-90000"
	Salary90to110    SalaryBand = "90000-110000"
	Salary110to130   SalaryBand = "110000-130000"
	Salary130plus    SalaryBand = "130000+"
)

// String returns the string representation of the salary band.
func (s SalaryBand) String() string {
	return string(s)
}

// IsValid checks whether the salary band is a known value.
func (s SalaryBand) IsValid() bool {
	switch s {
	case SalaryNegotiable, Salary10to30, Salary30to50, Salary50to70,
		Salary70to90, Salary90to110, Salary110to130, Salary130plus:
		return true
	}
	return false
}

// Job is an employer's listing. A job is publicly visible only while it is
// both active and approved by an admin.
type Job struct {
	ID           string     `json:"id"`
	EmployerID   string     `json:"employer_id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements,omitempty"`
	Location     string     `json:"location"`
	Type         JobType    `json:"job_type"`
	Salary       SalaryBand `json:"salary"`
	Active       bool       `json:"is_active"`
	Approved     bool       `json:"is_approved"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Visible reports whether the listing should appear in public results.
func (j *Job) Visible() bool {
	return j.Active && j.Approved
}

// JobFilter narrows ListJobs results. Zero values mean "no constraint".
type JobFilter struct {
	EmployerID  string
	Search      string // matches title, company, and description
	Location    string
	Type        []JobType
	VisibleOnly bool // active and approved listings only
	PendingOnly bool // active listings awaiting approval (admin queue)
	Limit       int
	Offset      int
	Sort        string // column name, "-" prefix for descending
}
