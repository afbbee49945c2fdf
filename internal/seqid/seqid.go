// Package seqid allocates the human-readable sequential identifiers used
// across the platform: a letter code plus a zero-padded numeric suffix,
// either global ("O001", "U042") or scoped to a parent entity
// ("S001_M007").
//
// Allocation goes through an id_counters table bumped with a single atomic
// statement, so concurrent creates under the same scope can never observe
// the same counter value. Scopes that predate the counters table are seeded
// from the owning table's highest existing identifier.
package seqid

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Scope describes one identifier sequence.
type Scope struct {
	Key    string // id_counters primary key
	Prefix string // everything before the numeric suffix
	Width  int    // suffix zero-padding
	// SeedSQL selects the highest existing identifier of the owning table,
	// used once to continue a sequence that predates id_counters.
	SeedSQL  string
	SeedArgs []any
}

const defaultWidth = 3

// Global scopes.

func Orders() Scope {
	return Scope{Key: "orders", Prefix: "O", Width: defaultWidth,
		SeedSQL: `SELECT id FROM orders ORDER BY id DESC LIMIT 1`}
}

func Users() Scope {
	return Scope{Key: "users", Prefix: "U", Width: defaultWidth,
		SeedSQL: `SELECT id FROM users ORDER BY id DESC LIMIT 1`}
}

func Shops() Scope {
	return Scope{Key: "shops", Prefix: "S", Width: defaultWidth,
		SeedSQL: `SELECT id FROM shops ORDER BY id DESC LIMIT 1`}
}

func Deliverymen() Scope {
	return Scope{Key: "deliverymen", Prefix: "D", Width: defaultWidth,
		SeedSQL: `SELECT id FROM deliverymen ORDER BY id DESC LIMIT 1`}
}

func Accounts() Scope {
	return Scope{Key: "accounts", Prefix: "A", Width: defaultWidth,
		SeedSQL: `SELECT id FROM accounts ORDER BY id DESC LIMIT 1`}
}

// Per-shop scopes. The prefix carries the shop id, e.g. "S001_M".

func Menu(shopID string) Scope {
	return Scope{Key: "menu:" + shopID, Prefix: shopID + "_M", Width: defaultWidth,
		SeedSQL: `SELECT id FROM menu WHERE shop_id = $1 ORDER BY id DESC LIMIT 1`, SeedArgs: []any{shopID}}
}

func Categories(shopID string) Scope {
	return Scope{Key: "categories:" + shopID, Prefix: shopID + "_C", Width: defaultWidth,
		SeedSQL: `SELECT id FROM categories WHERE shop_id = $1 ORDER BY id DESC LIMIT 1`, SeedArgs: []any{shopID}}
}

func Ingredients(shopID string) Scope {
	return Scope{Key: "ingredients:" + shopID, Prefix: shopID + "_I", Width: defaultWidth,
		SeedSQL: `SELECT id FROM ingredients WHERE shop_id = $1 ORDER BY id DESC LIMIT 1`, SeedArgs: []any{shopID}}
}

type Allocator struct{ DB *pgxpool.Pool }

// Next returns the next identifier for the scope. A database error means no
// identifier was handed out and the enclosing create must abort.
func (a *Allocator) Next(ctx context.Context, sc Scope) (string, error) {
	var seq int
	err := a.DB.QueryRow(ctx,
		`UPDATE id_counters SET last_seq = last_seq + 1 WHERE scope = $1 RETURNING last_seq`,
		sc.Key,
	).Scan(&seq)
	if err == nil {
		return Format(sc.Prefix, seq, sc.Width), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("bump counter %s: %w", sc.Key, err)
	}

	// First allocation for this scope: continue from whatever the owning
	// table already holds.
	seq, err = a.seed(ctx, sc)
	if err != nil {
		return "", err
	}
	return Format(sc.Prefix, seq, sc.Width), nil
}

func (a *Allocator) seed(ctx context.Context, sc Scope) (int, error) {
	var lastID string
	err := a.DB.QueryRow(ctx, sc.SeedSQL, sc.SeedArgs...).Scan(&lastID)
	last := 0
	switch {
	case err == nil:
		n, perr := SuffixOf(lastID, sc.Prefix)
		if perr != nil {
			return 0, fmt.Errorf("seed counter %s from %q: %w", sc.Key, lastID, perr)
		}
		last = n
	case errors.Is(err, pgx.ErrNoRows):
		// empty table, sequence starts at 1
	default:
		return 0, fmt.Errorf("seed counter %s: %w", sc.Key, err)
	}

	// If another request seeded the row first, the conflict branch keeps
	// that row authoritative and just bumps it.
	var seq int
	err = a.DB.QueryRow(ctx,
		`INSERT INTO id_counters (scope, last_seq) VALUES ($1, $2)
		 ON CONFLICT (scope) DO UPDATE SET last_seq = id_counters.last_seq + 1
		 RETURNING last_seq`,
		sc.Key, last+1,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("insert counter %s: %w", sc.Key, err)
	}
	return seq, nil
}

// Format builds an identifier from prefix and sequence number. Sequences
// that outgrow the padding keep their full value ("O999" -> "O1000").
func Format(prefix string, seq, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}

// SuffixOf parses the numeric suffix of an identifier produced by Format.
func SuffixOf(id, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || rest == "" {
		return 0, fmt.Errorf("identifier %q does not match prefix %q", id, prefix)
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("identifier %q has non-numeric suffix", id)
	}
	return n, nil
}
