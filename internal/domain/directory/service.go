package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vitalshub/vitalshub/internal/platform/auth"
)

// TxRunner executes fn inside a single transaction. Repositories called
// from fn pick the transaction up from ctx.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// NoTx runs fn without a transaction. It is the runner used by tests
// and by callers that already hold one.
func NoTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type Service struct {
	users    UserRepository
	patients PatientRepository
	doctors  DoctorRepository
	nurses   NurseRepository
	inTx     TxRunner
}

func NewService(users UserRepository, patients PatientRepository, doctors DoctorRepository, nurses NurseRepository, inTx TxRunner) *Service {
	if inTx == nil {
		inTx = NoTx
	}
	return &Service{users: users, patients: patients, doctors: doctors, nurses: nurses, inTx: inTx}
}

func validateAccount(username, email, name, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" {
		return errors.New("username, email and name are required")
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

func (s *Service) newUser(username, email, name, role, password string, phone *string) (*User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &User{
		Username:     username,
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}

// Authenticate checks the credentials and the declared role. Inactive
// accounts cannot sign in.
func (s *Service) Authenticate(ctx context.Context, username, password, role string) (*User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrForbidden
	}
	if u.Role != role {
		return nil, ErrForbidden
	}
	if !u.IsActive {
		return nil, ErrForbidden
	}
	return u, nil
}

// RegisterPatient creates a patient account and its profile atomically.
func (s *Service) RegisterPatient(ctx context.Context, req RegisterPatientRequest) (*User, error) {
	if err := validateAccount(req.Username, req.Email, req.Name, req.Password); err != nil {
		return nil, err
	}
	u, err := s.newUser(req.Username, req.Email, req.Name, auth.RolePatient, req.Password, nil)
	if err != nil {
		return nil, err
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		p := &Patient{
			UserID:         u.ID,
			Age:            req.Age,
			Gender:         req.Gender,
			MedicalHistory: req.MedicalHistory,
			ContactNumber:  req.ContactNumber,
		}
		return s.patients.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterUser creates an account of any role. Patient accounts get an
// empty patient profile so the pair invariant holds from birth.
func (s *Service) RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error) {
	if !auth.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}
	if err := validateAccount(req.Username, req.Email, req.Name, req.Password); err != nil {
		return nil, err
	}
	u, err := s.newUser(req.Username, req.Email, req.Name, req.Role, req.Password, nil)
	if err != nil {
		return nil, err
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		switch req.Role {
		case auth.RolePatient:
			return s.patients.Create(ctx, &Patient{UserID: u.ID})
		case auth.RoleDoctor:
			return s.doctors.Create(ctx, &Doctor{UserID: u.ID, IsAvailable: true})
		case auth.RoleNurse:
			return s.nurses.Create(ctx, &Nurse{UserID: u.ID, IsAvailable: true})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SeedAdmin ensures a bootstrap administrator account exists so a fresh
// deployment has a way in. Idempotent by username: an existing account is
// left untouched, password included. Returns whether an account was created.
func (s *Service) SeedAdmin(ctx context.Context, username, email, name, password string) (*User, bool, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if err := validateAccount(username, email, name, password); err != nil {
		return nil, false, err
	}
	u, err = s.newUser(username, email, name, auth.RoleAdministrator, password, nil)
	if err != nil {
		return nil, false, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		// A concurrent seeder may have won the insert.
		if errors.Is(err, ErrConflict) {
			u, err = s.users.GetByUsername(ctx, username)
			return u, false, err
		}
		return nil, false, err
	}
	return u, true, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

// ToggleUserActive flips the activation flag. Administrator accounts
// stay active; there must always be a way back in.
func (s *Service) ToggleUserActive(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == auth.RoleAdministrator {
		return nil, ErrForbidden
	}
	if err := s.users.SetActive(ctx, id, !u.IsActive); err != nil {
		return nil, err
	}
	u.IsActive = !u.IsActive
	return u, nil
}

// DeleteUser removes an account and whatever profile rides along with
// it in one transaction. Administrator accounts cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == auth.RoleAdministrator {
		return ErrForbidden
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		switch u.Role {
		case auth.RolePatient:
			if err := s.patients.DeleteByUserID(ctx, id); err != nil {
				return err
			}
		case auth.RoleDoctor:
			if err := s.doctors.DeleteByUserID(ctx, id); err != nil {
				return err
			}
		case auth.RoleNurse:
			if err := s.nurses.DeleteByUserID(ctx, id); err != nil {
				return err
			}
		}
		return s.users.Delete(ctx, id)
	})
}

// CreateDoctor creates a doctor account and profile atomically.
func (s *Service) CreateDoctor(ctx context.Context, req CreateDoctorRequest) (*Doctor, error) {
	if err := validateAccount(req.Username, req.Email, req.Name, req.Password); err != nil {
		return nil, err
	}
	u, err := s.newUser(req.Username, req.Email, req.Name, auth.RoleDoctor, req.Password, req.Phone)
	if err != nil {
		return nil, err
	}
	d := &Doctor{
		Specialization:    req.Specialization,
		LicenseNumber:     req.LicenseNumber,
		Department:        req.Department,
		YearsOfExperience: req.YearsOfExperience,
		IsAvailable:       true,
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		d.UserID = u.ID
		return s.doctors.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	d.User = u
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) DoctorByUser(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByUserID(ctx, userID)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

func (s *Service) ListAvailableDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.ListAvailable(ctx)
}

// ToggleDoctorAvailable flips the doctor's availability flag.
func (s *Service) ToggleDoctorAvailable(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.doctors.SetAvailable(ctx, id, !d.IsAvailable); err != nil {
		return nil, err
	}
	d.IsAvailable = !d.IsAvailable
	return d, nil
}

// DeleteDoctor removes the profile and its owning account together.
func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.doctors.DeleteByUserID(ctx, d.UserID); err != nil {
			return err
		}
		return s.users.Delete(ctx, d.UserID)
	})
}

// CreateNurse creates a nurse account and profile atomically.
func (s *Service) CreateNurse(ctx context.Context, req CreateNurseRequest) (*Nurse, error) {
	if err := validateAccount(req.Username, req.Email, req.Name, req.Password); err != nil {
		return nil, err
	}
	u, err := s.newUser(req.Username, req.Email, req.Name, auth.RoleNurse, req.Password, req.Phone)
	if err != nil {
		return nil, err
	}
	n := &Nurse{
		Department:    req.Department,
		Shift:         req.Shift,
		LicenseNumber: req.LicenseNumber,
		IsAvailable:   true,
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		n.UserID = u.ID
		return s.nurses.Create(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	n.User = u
	return n, nil
}

func (s *Service) NurseByUser(ctx context.Context, userID uuid.UUID) (*Nurse, error) {
	return s.nurses.GetByUserID(ctx, userID)
}

func (s *Service) ListNurses(ctx context.Context, limit, offset int) ([]*Nurse, int, error) {
	return s.nurses.List(ctx, limit, offset)
}

// ToggleNurseAvailable flips the nurse's availability flag.
func (s *Service) ToggleNurseAvailable(ctx context.Context, id uuid.UUID) (*Nurse, error) {
	n, err := s.nurses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.nurses.SetAvailable(ctx, id, !n.IsAvailable); err != nil {
		return nil, err
	}
	n.IsAvailable = !n.IsAvailable
	return n, nil
}

// DeleteNurse removes the profile and its owning account together.
func (s *Service) DeleteNurse(ctx context.Context, id uuid.UUID) error {
	n, err := s.nurses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.nurses.DeleteByUserID(ctx, n.UserID); err != nil {
			return err
		}
		return s.users.Delete(ctx, n.UserID)
	})
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) PatientByUser(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	return s.patients.GetByUserID(ctx, userID)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// UpdatePatient applies a partial update. Fields absent from the patch
// keep their stored values.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, patch PatientPatch) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.Gender != nil {
		p.Gender = patch.Gender
	}
	if patch.MedicalHistory != nil {
		p.MedicalHistory = patch.MedicalHistory
	}
	if patch.ContactNumber != nil {
		p.ContactNumber = patch.ContactNumber
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
