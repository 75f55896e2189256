package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
	"github.com/oksasatya/learnpath-auth/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, email, password_hash, role, department, position, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, login_count, created_at
	`, u.FullName, u.Email, u.Password, string(u.Role), nullable(u.Department), nullable(u.Position), u.Active)

	if err := row.Scan(&u.ID, &u.LoginCount, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, password_hash, role, department, position,
		       active, last_login, login_count, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)

	u := &entity.User{}
	var role string
	var department, position *string
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &role, &department, &position,
		&u.Active, &u.LastLogin, &u.LoginCount, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	u.Role = entity.Role(role)
	if department != nil {
		u.Department = *department
	}
	if position != nil {
		u.Position = *position
	}
	return u, nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET last_login = $1, login_count = login_count + 1
		WHERE id = $2
	`, at, userID)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.UserRepository = (*UserRepository)(nil)
