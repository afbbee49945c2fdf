// Package deliverymen manages deliveryman accounts.
package deliverymen

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
	ErrNotFound       = errors.New("deliveryman not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrBadCredentials = errors.New("wrong email or password")
)

type Deliveryman struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Photo     string    `json:"photo,omitempty"`
	Location  string    `json:"location,omitempty"`
	WorkType  string    `json:"work_type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct {
	DB  *pgxpool.Pool
	IDs *seqid.Allocator
}

func (r *Repo) Create(ctx context.Context, d *Deliveryman, password string) (string, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM deliverymen WHERE email = $1)`, d.Email).Scan(&exists)
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
	id, err := r.IDs.Next(ctx, seqid.Deliverymen())
	if err != nil {
		return "", fmt.Errorf("allocate deliveryman id: %w", err)
	}
	if d.WorkType == "" {
		d.WorkType = "Full time"
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO deliverymen (id, name, email, phone, password, photo, location, work_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		id, d.Name, d.Email, d.Phone, string(hash), d.Photo, d.Location, d.WorkType,
	)
	if err != nil {
		return "", fmt.Errorf("insert deliveryman: %w", err)
	}
	d.ID = id
	return id, nil
}

func (r *Repo) Login(ctx context.Context, email, password string) (string, error) {
	var (
		id   string
		hash string
	)
	err := r.DB.QueryRow(ctx, `SELECT id, password FROM deliverymen WHERE email = $1`, email).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load deliveryman: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}
	return id, nil
}

const columns = `id, name, email, phone, COALESCE(photo, ''), COALESCE(location, ''), work_type, status, created_at`

func (r *Repo) List(ctx context.Context) ([]Deliveryman, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+columns+` FROM deliverymen ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query deliverymen: %w", err)
	}
	defer rows.Close()

	var out []Deliveryman
	for rows.Next() {
		var d Deliveryman
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.Photo, &d.Location, &d.WorkType, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deliveryman: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Deliveryman, error) {
	var d Deliveryman
	err := r.DB.QueryRow(ctx, `SELECT `+columns+` FROM deliverymen WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.Photo, &d.Location, &d.WorkType, &d.Status, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load deliveryman: %w", err)
	}
	return &d, nil
}

// Update rewrites the mutable profile fields.
func (r *Repo) Update(ctx context.Context, d *Deliveryman) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE deliverymen SET name = $1, phone = $2, location = $3, work_type = $4
		WHERE id = $5`,
		d.Name, d.Phone, d.Location, d.WorkType, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update deliveryman: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ToggleStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.DB.QueryRow(ctx, `
		UPDATE deliverymen
		SET status = CASE WHEN status = 'active' THEN 'warning' ELSE 'active' END
		WHERE id = $1
		RETURNING status`, id,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("toggle deliveryman status: %w", err)
	}
	return status, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM deliverymen WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deliveryman: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
