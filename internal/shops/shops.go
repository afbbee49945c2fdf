// Package shops manages shop accounts and their approval workflow: a newly
// registered shop is pending until an admin approves or rejects it, and
// only approved shops can log in.
package shops

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

const (
	PermissionPending  = "pending"
	PermissionApproved = "approved"
	PermissionRejected = "rejected"
)

var (
	ErrNotFound       = errors.New("shop not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrBadCredentials = errors.New("wrong email or password")
	ErrNotApproved    = errors.New("shop is not approved yet")
)

type Shop struct {
	ID             string    `json:"id"`
	ShopkeeperName string    `json:"shopkeeper_name"`
	ShopName       string    `json:"shop_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Photo          string    `json:"photo,omitempty"`
	Items          int       `json:"items"`
	Address        string    `json:"address"`
	Permission     string    `json:"permission"`
	CreatedAt      time.Time `json:"created_at"`
}

type Repo struct {
	DB  *pgxpool.Pool
	IDs *seqid.Allocator
}

// Create registers a shop in pending state. Photo is the already-stored
// upload path (decoding happens before this call).
func (r *Repo) Create(ctx context.Context, s *Shop, password string) (string, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shops WHERE email = $1)`, s.Email).Scan(&exists)
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
	id, err := r.IDs.Next(ctx, seqid.Shops())
	if err != nil {
		return "", fmt.Errorf("allocate shop id: %w", err)
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO shops (id, shopkeeper_name, shop_name, email, phone, password, photo, items, address, permission)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, s.ShopkeeperName, s.ShopName, s.Email, s.Phone, string(hash), s.Photo, s.Items, s.Address, PermissionPending,
	)
	if err != nil {
		return "", fmt.Errorf("insert shop: %w", err)
	}
	s.ID = id
	s.Permission = PermissionPending
	return id, nil
}

// Login verifies credentials and rejects shops that have not been approved.
func (r *Repo) Login(ctx context.Context, email, password string) (*Shop, error) {
	var (
		s    Shop
		hash string
	)
	err := r.DB.QueryRow(ctx, `
		SELECT id, shopkeeper_name, shop_name, email, password, permission
		FROM shops WHERE email = $1`, email,
	).Scan(&s.ID, &s.ShopkeeperName, &s.ShopName, &s.Email, &hash, &s.Permission)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load shop: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	if s.Permission != PermissionApproved {
		return nil, ErrNotApproved
	}
	return &s, nil
}

// List returns shops, optionally restricted to one permission state.
func (r *Repo) List(ctx context.Context, permission string) ([]Shop, error) {
	q := `SELECT id, shopkeeper_name, shop_name, email, phone, COALESCE(photo, ''), items, address, permission, created_at
		FROM shops`
	args := []any{}
	if permission != "" {
		q += ` WHERE permission = $1`
		args = append(args, permission)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query shops: %w", err)
	}
	defer rows.Close()

	var out []Shop
	for rows.Next() {
		var s Shop
		if err := rows.Scan(&s.ID, &s.ShopkeeperName, &s.ShopName, &s.Email, &s.Phone, &s.Photo, &s.Items, &s.Address, &s.Permission, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Shop, error) {
	var s Shop
	err := r.DB.QueryRow(ctx, `
		SELECT id, shopkeeper_name, shop_name, email, phone, COALESCE(photo, ''), items, address, permission, created_at
		FROM shops WHERE id = $1`, id,
	).Scan(&s.ID, &s.ShopkeeperName, &s.ShopName, &s.Email, &s.Phone, &s.Photo, &s.Items, &s.Address, &s.Permission, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load shop: %w", err)
	}
	return &s, nil
}

// SetPermission moves a shop to approved or rejected.
func (r *Repo) SetPermission(ctx context.Context, id, permission string) error {
	if permission != PermissionApproved && permission != PermissionRejected {
		return fmt.Errorf("invalid permission %q", permission)
	}
	tag, err := r.DB.Exec(ctx, `UPDATE shops SET permission = $1 WHERE id = $2`, permission, id)
	if err != nil {
		return fmt.Errorf("set shop permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
