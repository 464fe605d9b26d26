package alert

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound doubles as the answer for alerts that belong to someone
// else; callers cannot tell foreign alerts from missing ones.
var ErrNotFound = errors.New("alert not found")

// Alert kinds, in descending severity.
const (
	TypeEmergency = "emergency"
	TypeWarning   = "warning"
	TypeInfo      = "info"
)

// Alert is a notification targeted at one user.
type Alert struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Type      string    `db:"alert_type" json:"alert_type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// CreateRequest targets an alert at a user.
type CreateRequest struct {
	UserID  uuid.UUID `json:"user_id"`
	Type    string    `json:"alert_type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}
