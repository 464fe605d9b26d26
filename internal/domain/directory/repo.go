package directory

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)
	// List returns patients with their user records attached.
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	// List returns doctors with their user records attached.
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	ListAvailable(ctx context.Context) ([]*Doctor, error)
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type NurseRepository interface {
	Create(ctx context.Context, n *Nurse) error
	GetByID(ctx context.Context, id uuid.UUID) (*Nurse, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Nurse, error)
	// List returns nurses with their user records attached.
	List(ctx context.Context, limit, offset int) ([]*Nurse, int, error)
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
