package directory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("username or email already registered")
	ErrForbidden = errors.New("operation not permitted")
)

// User is an account that can sign in. Exactly one of the profile types
// below is attached depending on role; the pair lives and dies together.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Patient is the profile attached to a patient account.
type Patient struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	Age              *int      `db:"age" json:"age,omitempty"`
	Gender           *string   `db:"gender" json:"gender,omitempty"`
	MedicalHistory   *string   `db:"medical_history" json:"medical_history,omitempty"`
	ContactNumber    *string   `db:"contact_number" json:"contact_number,omitempty"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
	User             *User     `db:"-" json:"user,omitempty"`
}

// PatientPatch lists the patient fields a partial update may touch. Nil
// fields are left untouched.
type PatientPatch struct {
	Age            *int    `json:"age,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	MedicalHistory *string `json:"medical_history,omitempty"`
	ContactNumber  *string `json:"contact_number,omitempty"`
}

// Doctor is the profile attached to a doctor account.
type Doctor struct {
	ID                uuid.UUID `db:"id" json:"id"`
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	Specialization    *string   `db:"specialization" json:"specialization,omitempty"`
	LicenseNumber     *string   `db:"license_number" json:"license_number,omitempty"`
	Department        *string   `db:"department" json:"department,omitempty"`
	YearsOfExperience *int      `db:"years_of_experience" json:"years_of_experience,omitempty"`
	IsAvailable       bool      `db:"is_available" json:"is_available"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	User              *User     `db:"-" json:"user,omitempty"`
}

// Nurse is the profile attached to a nurse account.
type Nurse struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Department    *string   `db:"department" json:"department,omitempty"`
	Shift         *string   `db:"shift" json:"shift,omitempty"`
	LicenseNumber *string   `db:"license_number" json:"license_number,omitempty"`
	IsAvailable   bool      `db:"is_available" json:"is_available"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	User          *User     `db:"-" json:"user,omitempty"`
}

// RegisterPatientRequest is the self-service patient signup payload.
type RegisterPatientRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Password       string  `json:"password"`
	Age            *int    `json:"age,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	MedicalHistory *string `json:"medical_history,omitempty"`
	ContactNumber  *string `json:"contact_number,omitempty"`
}

// RegisterUserRequest creates a bare account of any role.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// CreateDoctorRequest creates a doctor account plus profile.
type CreateDoctorRequest struct {
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	Phone             *string `json:"phone,omitempty"`
	Password          string  `json:"password"`
	Specialization    *string `json:"specialization,omitempty"`
	LicenseNumber     *string `json:"license_number,omitempty"`
	Department        *string `json:"department,omitempty"`
	YearsOfExperience *int    `json:"years_of_experience,omitempty"`
}

// CreateNurseRequest creates a nurse account plus profile.
type CreateNurseRequest struct {
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Phone         *string `json:"phone,omitempty"`
	Password      string  `json:"password"`
	Department    *string `json:"department,omitempty"`
	Shift         *string `json:"shift,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}
