package triage

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("triage record not found")
	ErrForbidden = errors.New("operation not permitted")
)

// Triage statuses, advancing as the patient moves through intake.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Conventional priority labels. The intake priority is a free string
// judged by a human, so any label is stored; these are the ones the
// stock queue views and dashboard counts expect.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Record is one triage intake: the vitals measured, the symptoms
// observed and the nurse's priority call.
type Record struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	NurseID          uuid.UUID `db:"nurse_id" json:"nurse_id"`
	BloodPressure    string    `db:"blood_pressure" json:"blood_pressure"`
	HeartRate        int       `db:"heart_rate" json:"heart_rate"`
	Temperature      float64   `db:"temperature" json:"temperature"`
	OxygenSaturation int       `db:"oxygen_saturation" json:"oxygen_saturation"`
	RespiratoryRate  int       `db:"respiratory_rate" json:"respiratory_rate"`
	Symptoms         string    `db:"symptoms" json:"symptoms"`
	Priority         string    `db:"priority" json:"priority"`
	Status           string    `db:"status" json:"status"`
	Timestamp        time.Time `db:"timestamp" json:"timestamp"`

	// Denormalized for responses; populated by joins, never written.
	PatientName string `db:"-" json:"patient_name,omitempty"`
	NurseName   string `db:"-" json:"nurse_name,omitempty"`
}

// CreateRequest is the intake payload. NurseID is ignored when the
// caller is a nurse; their own profile is recorded instead.
type CreateRequest struct {
	PatientID        uuid.UUID  `json:"patient_id"`
	NurseID          *uuid.UUID `json:"nurse_id,omitempty"`
	BloodPressure    string     `json:"blood_pressure"`
	HeartRate        int        `json:"heart_rate"`
	Temperature      float64    `json:"temperature"`
	OxygenSaturation int        `json:"oxygen_saturation"`
	RespiratoryRate  int        `json:"respiratory_rate"`
	Symptoms         string     `json:"symptoms"`
	Priority         string     `json:"priority"`
}
