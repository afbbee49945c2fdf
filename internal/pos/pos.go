// Package pos backs the in-store point-of-sale server. It runs against its
// own database: staff accounts (A### ids), products and supplier shops with
// caller-supplied codes, and purchase orders with generated O### ids.
package pos

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
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrDuplicateID    = errors.New("id already in use")
	ErrBadCredentials = errors.New("wrong email or password")
)

type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product ids are the store's own item codes, supplied by the caller and
// checked for uniqueness rather than generated.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
	AlertDate string `json:"alert_date"`
	ExpDate   string `json:"exp_date,omitempty"`
	Remark    string `json:"remark,omitempty"`
}

// Shop is a supplier the store purchases from; its code is caller-supplied.
type Shop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Photo   string `json:"photo,omitempty"`
}

// Order is a purchase order placed with a supplier by a seller account.
type Order struct {
	ID       string `json:"id"`
	ShopName string `json:"shop_name"`
	SellerID string `json:"seller_id"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	Date     string `json:"date"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Remark   string `json:"remark,omitempty"`
}

type Repo struct {
	DB  *pgxpool.Pool
	IDs *seqid.Allocator
}

func (r *Repo) CreateAccount(ctx context.Context, a *Account, password string) (string, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, a.Email).Scan(&exists)
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
	id, err := r.IDs.Next(ctx, seqid.Accounts())
	if err != nil {
		return "", fmt.Errorf("allocate account id: %w", err)
	}
	if a.Role == "" {
		a.Role = "staff"
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO accounts (id, username, email, phone, password, role, photo)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, a.Username, a.Email, a.Phone, string(hash), a.Role, a.Photo,
	)
	if err != nil {
		return "", fmt.Errorf("insert account: %w", err)
	}
	a.ID = id
	return id, nil
}

// LoginAccount verifies credentials and returns id plus role; the POS
// client gates its screens on the role.
func (r *Repo) LoginAccount(ctx context.Context, email, password string) (id, role string, err error) {
	var hash string
	err = r.DB.QueryRow(ctx, `SELECT id, password, role FROM accounts WHERE email = $1`, email).
		Scan(&id, &hash, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrBadCredentials
	}
	if err != nil {
		return "", "", fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", "", ErrBadCredentials
	}
	return id, role, nil
}

func (r *Repo) GetAccount(ctx context.Context, id string) (*Account, error) {
	var a Account
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, email, phone, role, COALESCE(photo, ''), created_at
		FROM accounts WHERE id = $1`, id,
	).Scan(&a.ID, &a.Username, &a.Email, &a.Phone, &a.Role, &a.Photo, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &a, nil
}

func (r *Repo) CreateProduct(ctx context.Context, p *Product) error {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, p.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check product id: %w", err)
	}
	if exists {
		return ErrDuplicateID
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO products (id, name, quantity, price, alert_date, exp_date, remark)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Quantity, p.Price, p.AlertDate, p.ExpDate, p.Remark,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

const productColumns = `id, name, quantity, price, alert_date, COALESCE(exp_date, ''), COALESCE(remark, '')`

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.AlertDate, &p.ExpDate, &p.Remark); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.AlertDate, &p.ExpDate, &p.Remark)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	return &p, nil
}

func (r *Repo) CreateShop(ctx context.Context, s *Shop) error {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shops WHERE id = $1)`, s.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check shop id: %w", err)
	}
	if exists {
		return ErrDuplicateID
	}
	_, err = r.DB.Exec(ctx,
		`INSERT INTO shops (id, name, phone, address, photo) VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.Name, s.Phone, s.Address, s.Photo,
	)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *Repo) UpdateShop(ctx context.Context, s *Shop) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE shops SET name = $1, phone = $2, address = $3 WHERE id = $4`,
		s.Name, s.Phone, s.Address, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ListShops(ctx context.Context) ([]Shop, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, phone, address, COALESCE(photo, '') FROM shops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query shops: %w", err)
	}
	defer rows.Close()

	var out []Shop
	for rows.Next() {
		var s Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.Photo); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) CreateOrder(ctx context.Context, o *Order) (string, error) {
	id, err := r.IDs.Next(ctx, seqid.Orders())
	if err != nil {
		return "", fmt.Errorf("allocate order id: %w", err)
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO orders (id, shop_name, seller_id, item, quantity, unit, date, phone, address, remark)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, o.ShopName, o.SellerID, o.Item, o.Quantity, o.Unit, o.Date, o.Phone, o.Address, o.Remark,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	o.ID = id
	return id, nil
}

const orderColumns = `id, shop_name, seller_id, item, quantity, unit, date, phone, address, COALESCE(remark, '')`

func (r *Repo) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListOrdersBySeller returns a seller's orders, newest first; an unknown or
// idle seller yields ErrNotFound to match the single-resource routes.
func (r *Repo) ListOrdersBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE seller_id = $1 ORDER BY date DESC`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("query seller orders: %w", err)
	}
	defer rows.Close()

	out, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ShopName, &o.SellerID, &o.Item, &o.Quantity, &o.Unit,
			&o.Date, &o.Phone, &o.Address, &o.Remark); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
