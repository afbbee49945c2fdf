// Package users manages customer accounts.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/minkhant-dev/foodcourt/internal/seqid"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrBadCredentials = errors.New("wrong email or password")
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Photo     string    `json:"photo,omitempty"`
	Location  string    `json:"location,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct {
	DB  *pgxpool.Pool
	IDs *seqid.Allocator
}

// Create registers a customer: duplicate-email check, bcrypt hash, next
// U### id. Returns the new id.
func (r *Repo) Create(ctx context.Context, name, email, phone, password string) (string, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return "", ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	id, err := r.IDs.Next(ctx, seqid.Users())
	if err != nil {
		return "", fmt.Errorf("allocate user id: %w", err)
	}

	_, err = r.DB.Exec(ctx,
		`INSERT INTO users (id, name, email, phone, password) VALUES ($1,$2,$3,$4,$5)`,
		id, name, email, phone, string(hash),
	)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// Login verifies email + password and returns the user id.
func (r *Repo) Login(ctx context.Context, email, password string) (string, error) {
	var (
		id   string
		hash string
	)
	err := r.DB.QueryRow(ctx, `SELECT id, password FROM users WHERE email = $1`, email).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}
	return id, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, phone, COALESCE(photo, ''), COALESCE(location, ''), status, created_at
		FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Photo, &u.Location, &u.Status, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, phone, COALESCE(photo, ''), COALESCE(location, ''), status, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Photo, &u.Location, &u.Status, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// ToggleStatus flips a user between active and warning and returns the new
// status.
func (r *Repo) ToggleStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.DB.QueryRow(ctx, `
		UPDATE users
		SET status = CASE WHEN status = 'active' THEN 'warning' ELSE 'active' END
		WHERE id = $1
		RETURNING status`, id,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("toggle user status: %w", err)
	}
	return status, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
