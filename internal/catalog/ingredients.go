package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/minkhant-dev/foodcourt/internal/seqid"
)

type Ingredient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prices    string    `json:"prices"`
	Photo     string    `json:"photo"`
	ShopID    string    `json:"shop_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Repo) CreateIngredient(ctx context.Context, in *Ingredient) (string, error) {
	id, err := r.IDs.Next(ctx, seqid.Ingredients(in.ShopID))
	if err != nil {
		return "", fmt.Errorf("allocate ingredient id: %w", err)
	}
	_, err = r.DB.Exec(ctx,
		`INSERT INTO ingredients (id, name, photo, prices, shop_id) VALUES ($1,$2,$3,$4,$5)`,
		id, in.Name, in.Photo, in.Prices, in.ShopID,
	)
	if err != nil {
		return "", fmt.Errorf("insert ingredient: %w", err)
	}
	in.ID = id
	return id, nil
}

func (r *Repo) ListIngredientsByShop(ctx context.Context, shopID string) ([]Ingredient, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, prices, photo, shop_id, created_at
		FROM ingredients WHERE shop_id = $1 ORDER BY created_at DESC`, shopID)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var in Ingredient
		if err := rows.Scan(&in.ID, &in.Name, &in.Prices, &in.Photo, &in.ShopID, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
