package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Admin struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type AdminRepository interface {
	Create(ctx context.Context, email, name, hash, role string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id int64) (*Admin, error)
	UpdateRole(ctx context.Context, id int64, role string) error
}

type adminRepository struct{ pool *pgxpool.Pool }

func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminCols = `id, email, name, password_hash, role, created_at`

func (r *adminRepository) Create(ctx context.Context, email, name, hash, role string) (*Admin, error) {
	const q = `INSERT INTO admins (email, name, password_hash, role)
VALUES ($1,$2,$3,$4)
ON CONFLICT (email) DO NOTHING
RETURNING ` + adminCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a Admin
	err := r.pool.QueryRow(ctx, q, email, name, hash, role).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a Admin
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a Admin
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	const q = `UPDATE admins SET role=$2 WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, q, id, role)
	return err
}
