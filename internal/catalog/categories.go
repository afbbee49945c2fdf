package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/minkhant-dev/foodcourt/internal/seqid"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      int       `json:"icon"`
	ShopID    string    `json:"shop_id"`
	MenuCount int       `json:"menu_count"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Repo) CreateCategory(ctx context.Context, c *Category) (string, error) {
	id, err := r.IDs.Next(ctx, seqid.Categories(c.ShopID))
	if err != nil {
		return "", fmt.Errorf("allocate category id: %w", err)
	}
	_, err = r.DB.Exec(ctx,
		`INSERT INTO categories (id, name, icon, shop_id) VALUES ($1,$2,$3,$4)`,
		id, c.Name, c.Icon, c.ShopID,
	)
	if err != nil {
		return "", fmt.Errorf("insert category: %w", err)
	}
	c.ID = id
	return id, nil
}

// ListCategoriesByShop returns a shop's categories with the number of menu
// entries referencing each.
func (r *Repo) ListCategoriesByShop(ctx context.Context, shopID string) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.name, c.icon, c.shop_id, COUNT(m.id), c.created_at
		FROM categories c
		LEFT JOIN menu m ON m.category = c.id
		WHERE c.shop_id = $1
		GROUP BY c.id
		ORDER BY c.created_at DESC`, shopID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.ShopID, &c.MenuCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateCategory(ctx context.Context, id, name string, icon int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE categories SET name = $1, icon = $2 WHERE id = $3`, name, icon, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
