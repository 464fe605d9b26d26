package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitalshub/vitalshub/internal/platform/db"
)

func mapPGError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

// =========== User Repository ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const userCols = `id, username, email, name, phone, password_hash, role, is_active, created_at, updated_at`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Phone, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	return &u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO users (id, username, email, name, phone, password_hash, role, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		u.ID, u.Username, u.Email, u.Name, u.Phone, u.PasswordHash, u.Role, u.IsActive).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	return mapPGError(err)
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username = $1`, username))
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var users []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `p.id, p.user_id, p.age, p.gender, p.medical_history, p.contact_number, p.registration_date`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.Age, &p.Gender, &p.MedicalHistory,
		&p.ContactNumber, &p.RegistrationDate)
	if err != nil {
		return nil, mapPGError(err)
	}
	return &p, nil
}

func (r *patientRepoPG) scanPatientWithUser(row pgx.Row) (*Patient, error) {
	var p Patient
	var u User
	err := row.Scan(&p.ID, &p.UserID, &p.Age, &p.Gender, &p.MedicalHistory,
		&p.ContactNumber, &p.RegistrationDate,
		&u.ID, &u.Username, &u.Email, &u.Name, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	p.User = &u
	return &p, nil
}

const patientUserJoin = patientCols + `,
	u.id, u.username, u.email, u.name, u.phone, u.role, u.is_active, u.created_at
	FROM patients p JOIN users u ON u.id = p.user_id`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, user_id, age, gender, medical_history, contact_number)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING registration_date`,
		p.ID, p.UserID, p.Age, p.Gender, p.MedicalHistory, p.ContactNumber).
		Scan(&p.RegistrationDate)
	return mapPGError(err)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatientWithUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientUserJoin+` WHERE p.id = $1`, id))
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients p WHERE p.user_id = $1`, userID))
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientUserJoin+` ORDER BY p.registration_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var patients []*Patient
	for rows.Next() {
		p, err := r.scanPatientWithUser(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET age=$2, gender=$3, medical_history=$4, contact_number=$5
		WHERE id = $1`,
		p.ID, p.Age, p.Gender, p.MedicalHistory, p.ContactNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE user_id = $1`, userID)
	return err
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorCols = `d.id, d.user_id, d.specialization, d.license_number, d.department,
	d.years_of_experience, d.is_available, d.created_at`

const doctorUserJoin = doctorCols + `,
	u.id, u.username, u.email, u.name, u.phone, u.role, u.is_active, u.created_at
	FROM doctors d JOIN users u ON u.id = d.user_id`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.Specialization, &d.LicenseNumber, &d.Department,
		&d.YearsOfExperience, &d.IsAvailable, &d.CreatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	return &d, nil
}

func (r *doctorRepoPG) scanDoctorWithUser(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var u User
	err := row.Scan(&d.ID, &d.UserID, &d.Specialization, &d.LicenseNumber, &d.Department,
		&d.YearsOfExperience, &d.IsAvailable, &d.CreatedAt,
		&u.ID, &u.Username, &u.Email, &u.Name, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	d.User = &u
	return &d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (id, user_id, specialization, license_number, department, years_of_experience, is_available)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		d.ID, d.UserID, d.Specialization, d.LicenseNumber, d.Department,
		d.YearsOfExperience, d.IsAvailable).Scan(&d.CreatedAt)
	return mapPGError(err)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctorWithUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorUserJoin+` WHERE d.id = $1`, id))
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors d WHERE d.user_id = $1`, userID))
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorUserJoin+` ORDER BY d.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var doctors []*Doctor
	for rows.Next() {
		d, err := r.scanDoctorWithUser(rows)
		if err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, d)
	}
	return doctors, total, rows.Err()
}

func (r *doctorRepoPG) ListAvailable(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorUserJoin+` WHERE d.is_available AND u.is_active ORDER BY u.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var doctors []*Doctor
	for rows.Next() {
		d, err := r.scanDoctorWithUser(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *doctorRepoPG) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET is_available = $2 WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *doctorRepoPG) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE user_id = $1`, userID)
	return err
}

// =========== Nurse Repository ===========

type nurseRepoPG struct{ pool *pgxpool.Pool }

func NewNurseRepoPG(pool *pgxpool.Pool) NurseRepository { return &nurseRepoPG{pool: pool} }

func (r *nurseRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const nurseCols = `n.id, n.user_id, n.department, n.shift, n.license_number, n.is_available, n.created_at`

const nurseUserJoin = nurseCols + `,
	u.id, u.username, u.email, u.name, u.phone, u.role, u.is_active, u.created_at
	FROM nurses n JOIN users u ON u.id = n.user_id`

func (r *nurseRepoPG) scanNurse(row pgx.Row) (*Nurse, error) {
	var n Nurse
	err := row.Scan(&n.ID, &n.UserID, &n.Department, &n.Shift, &n.LicenseNumber,
		&n.IsAvailable, &n.CreatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	return &n, nil
}

func (r *nurseRepoPG) scanNurseWithUser(row pgx.Row) (*Nurse, error) {
	var n Nurse
	var u User
	err := row.Scan(&n.ID, &n.UserID, &n.Department, &n.Shift, &n.LicenseNumber,
		&n.IsAvailable, &n.CreatedAt,
		&u.ID, &u.Username, &u.Email, &u.Name, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	n.User = &u
	return &n, nil
}

func (r *nurseRepoPG) Create(ctx context.Context, n *Nurse) error {
	n.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO nurses (id, user_id, department, shift, license_number, is_available)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		n.ID, n.UserID, n.Department, n.Shift, n.LicenseNumber, n.IsAvailable).Scan(&n.CreatedAt)
	return mapPGError(err)
}

func (r *nurseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Nurse, error) {
	return r.scanNurseWithUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+nurseUserJoin+` WHERE n.id = $1`, id))
}

func (r *nurseRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Nurse, error) {
	return r.scanNurse(r.conn(ctx).QueryRow(ctx,
		`SELECT `+nurseCols+` FROM nurses n WHERE n.user_id = $1`, userID))
}

func (r *nurseRepoPG) List(ctx context.Context, limit, offset int) ([]*Nurse, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM nurses`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+nurseUserJoin+` ORDER BY n.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var nurses []*Nurse
	for rows.Next() {
		n, err := r.scanNurseWithUser(rows)
		if err != nil {
			return nil, 0, err
		}
		nurses = append(nurses, n)
	}
	return nurses, total, rows.Err()
}

func (r *nurseRepoPG) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE nurses SET is_available = $2 WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *nurseRepoPG) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM nurses WHERE user_id = $1`, userID)
	return err
}
