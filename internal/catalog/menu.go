// Package catalog manages the per-shop catalog entities: menu entries,
// ingredients, and categories. Their identifiers are scoped to the owning
// shop (S001_M001, S001_C001, S001_I001).
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minkhant-dev/foodcourt/internal/seqid"
)

var ErrNotFound = errors.New("catalog entry not found")

type MenuItem struct {
	ID          string          `json:"id"`
	ShopID      string          `json:"shop_id"`
	Name        string          `json:"name"`
	Prices      string          `json:"prices"`
	Category    string          `json:"category"`
	Photo       string          `json:"photo"`
	Size        string          `json:"size,omitempty"`
	Description string          `json:"description,omitempty"`
	RelateMenu  json.RawMessage `json:"relate_menu,omitempty"`
	RelateIngr  json.RawMessage `json:"relate_ingredients,omitempty"`
	GetMonths   json.RawMessage `json:"get_months"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Repo struct {
	DB  *pgxpool.Pool
	IDs *seqid.Allocator
}

// CreateMenu inserts a menu entry under the shop's M sequence. The JSON
// side fields are validated by re-encoding so a malformed payload fails
// before anything is written. GetMonths defaults to ["All months"].
func (r *Repo) CreateMenu(ctx context.Context, m *MenuItem) (string, error) {
	for _, f := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"relate_menu", m.RelateMenu},
		{"relate_ingredients", m.RelateIngr},
		{"get_months", m.GetMonths},
	} {
		if len(f.raw) > 0 && !json.Valid(f.raw) {
			return "", fmt.Errorf("invalid JSON in %s", f.name)
		}
	}
	if len(m.GetMonths) == 0 {
		m.GetMonths = json.RawMessage(`["All months"]`)
	}

	id, err := r.IDs.Next(ctx, seqid.Menu(m.ShopID))
	if err != nil {
		return "", fmt.Errorf("allocate menu id: %w", err)
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO menu (id, shop_id, name, prices, category, photo, size, description,
			relate_menu, relate_ingredients, get_months)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		id, m.ShopID, m.Name, m.Prices, m.Category, m.Photo, m.Size, m.Description,
		nullableJSON(m.RelateMenu), nullableJSON(m.RelateIngr), []byte(m.GetMonths),
	)
	if err != nil {
		return "", fmt.Errorf("insert menu: %w", err)
	}
	m.ID = id
	return id, nil
}

// ListMenuByShop returns a shop's menu, newest first.
func (r *Repo) ListMenuByShop(ctx context.Context, shopID string) ([]MenuItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, shop_id, name, prices, category, photo,
			COALESCE(size, ''), COALESCE(description, ''),
			relate_menu, relate_ingredients, get_months, created_at
		FROM menu WHERE shop_id = $1 ORDER BY created_at DESC`, shopID)
	if err != nil {
		return nil, fmt.Errorf("query menu: %w", err)
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		var (
			m                MenuItem
			relMenu, relIngr []byte
			months           []byte
		)
		if err := rows.Scan(&m.ID, &m.ShopID, &m.Name, &m.Prices, &m.Category, &m.Photo,
			&m.Size, &m.Description, &relMenu, &relIngr, &months, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		m.RelateMenu = json.RawMessage(relMenu)
		m.RelateIngr = json.RawMessage(relIngr)
		m.GetMonths = json.RawMessage(months)
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
