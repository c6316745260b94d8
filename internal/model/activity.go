package model

import "time"

// ActivityAction names an audited user action.
type ActivityAction string

const (
	ActionLogin  ActivityAction = "login"
	ActionLogout ActivityAction = "logout"
	ActionView   ActivityAction = "view"
	ActionCreate ActivityAction = "create"
	ActionUpdate ActivityAction = "update"
	ActionDelete ActivityAction = "delete"
)

// String returns the string representation of the action.
func (a ActivityAction) String() string {
	return string(a)
}

// Activity is one row of the user audit trail.
type Activity struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Action    ActivityAction `json:"action"`
	Details   string         `json:"details,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
