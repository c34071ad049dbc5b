package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"medicare/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	var spec, lic *string
	if u.Doctor != nil {
		spec, lic = &u.Doctor.Specialization, &u.Doctor.LicenseNumber
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, specialization, license_number)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, spec, lic,
	)
	return err
}

const userCols = `id, name, email, password_hash, role, specialization, license_number, created_at, updated_at`

func (s *Store) scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var spec, lic *string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&spec, &lic, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Role == model.RoleDoctor {
		u.Doctor = &model.DoctorProfile{}
		if spec != nil {
			u.Doctor.Specialization = *spec
		}
		if lic != nil {
			u.Doctor.LicenseNumber = *lic
		}
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

// UserByEmailAndRole backs login: the pair must match, a patient cannot
// log in through the doctor form.
func (s *Store) UserByEmailAndRole(ctx context.Context, email, role string) (*model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1 AND role = $2`, email, role))
}

// EmailExists checks uniqueness across all roles.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

func (s *Store) DoctorByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1 AND role = $2`, id, model.RoleDoctor))
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE role = $1 ORDER BY name`, model.RoleDoctor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
