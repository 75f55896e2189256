package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
	"github.com/oksasatya/learnpath-auth/internal/domain/repository"
)

const timeLayout = time.RFC3339Nano

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, full_name, email, password_hash, role, department, position, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, u.FullName, u.Email, u.Password, string(u.Role), nullable(u.Department), nullable(u.Position), u.Active, now.Format(timeLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.LoginCount = 0
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, password_hash, role, department, position,
		       active, last_login, login_count, created_at
		FROM users
		WHERE lower(email) = lower(?)
	`, email)

	u := &entity.User{}
	var (
		role                 string
		department, position sql.NullString
		lastLogin            sql.NullString
		createdAt            string
	)
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &role, &department, &position,
		&u.Active, &lastLogin, &u.LoginCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	u.Role = entity.Role(role)
	u.Department = department.String
	u.Position = position.String
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	u.CreatedAt = created
	if lastLogin.Valid {
		t, err := time.Parse(timeLayout, lastLogin.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_login: %w", err)
		}
		u.LastLogin = &t
	}
	return u, nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET last_login = ?, login_count = login_count + 1
		WHERE id = ?
	`, at.UTC().Format(timeLayout), userID)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		// primary result code only when extended codes are off
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ repository.UserRepository = (*UserRepository)(nil)
