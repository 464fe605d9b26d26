package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrForbidden      = errors.New("operation not permitted")
)

// Appointment statuses. Bookings start pending; staff may confirm them
// as scheduled, and they end completed or cancelled.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment is a scheduled visit. PatientID and DoctorID both point
// at user accounts; PriorityID is assigned by the classifier at booking
// time and may be absent when no fallback tier exists.
type Appointment struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	PriorityID    *uuid.UUID `db:"priority_id" json:"priority_id,omitempty"`
	Date          string     `db:"date" json:"date"`
	Time          string     `db:"time" json:"time"`
	Type          string     `db:"appointment_type" json:"appointment_type"`
	Condition     *string    `db:"condition" json:"condition,omitempty"`
	Status        string     `db:"status" json:"status"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	DoctorRemarks *string    `db:"doctor_remarks" json:"doctor_remarks,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`

	// Denormalized for responses; populated by joins, never written.
	PatientName  string  `db:"-" json:"patient_name,omitempty"`
	DoctorName   string  `db:"-" json:"doctor_name,omitempty"`
	PriorityName *string `db:"-" json:"priority_name,omitempty"`
}

// BookingRequest is the patient-facing booking payload. The patient is
// always the caller; the priority is classified from the condition.
type BookingRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Type      string    `json:"appointment_type"`
	Condition string    `json:"condition"`
	Notes     *string   `json:"notes,omitempty"`
}

// CreateRequest is the staff-facing creation payload with an explicit
// patient.
type CreateRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Type      string    `json:"appointment_type"`
	Condition *string   `json:"condition,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

// Patch lists the fields a partial update may touch. Nil fields keep
// their stored values.
type Patch struct {
	Date          *string `json:"date,omitempty"`
	Time          *string `json:"time,omitempty"`
	Type          *string `json:"appointment_type,omitempty"`
	Condition     *string `json:"condition,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Status        *string `json:"status,omitempty"`
	DoctorRemarks *string `json:"doctor_remarks,omitempty"`
}
