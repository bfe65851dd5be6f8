package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type PGUserRepository struct {
	executor
}

func NewUserRepository(db DBTX) UserRepository {
	return &PGUserRepository{executor{db: db}}
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO users (email, password_hash, is_staff)
		VALUES ($1, $2, $3) RETURNING id, created_at`,
		user.Email, user.PasswordHash, user.IsStaff).Scan(&user.ID, &user.CreatedAt)
	return translate(err, "user", 0)
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, email, password_hash, is_staff, created_at FROM users WHERE lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		return nil, translate(err, "user", 0)
	}
	return &u, nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, email, password_hash, is_staff, created_at FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		return nil, translate(err, "user", id)
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
