package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minkhant-dev/foodcourt/internal/seqid"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrItemNotFound = errors.New("order item not found")
	ErrNoItems      = errors.New("order has no items")
)

// Repo persists orders as a header row plus normalized order_items child
// rows keyed by (order_id, line_no). The JSON-array item representation
// exists only at the API boundary; see ItemList.
type Repo struct {
	DB  *pgxpool.Pool
	IDs *seqid.Allocator
}

const orderColumns = `id, user_id, name, address, location, phone, type, remark,
	total_order, discount, tax, extra, grand_total,
	payment_method, payment_phone, payment_name, payment_photo,
	orders_done, connected_deliveryman, created_at`

// NextID allocates the next O### id. Callers that need the id before the
// insert (the payment photo is stored under it) allocate here and pass
// the order in with ID set.
func (r *Repo) NextID(ctx context.Context) (string, error) {
	return r.IDs.Next(ctx, seqid.Orders())
}

// Create writes header and items in one transaction, allocating an id
// unless the caller already set one. Every item starts pending regardless
// of what the client sent; status is not a creation-time input.
func (r *Repo) Create(ctx context.Context, o *Order) (string, error) {
	if len(o.Items) == 0 {
		return "", ErrNoItems
	}
	id := o.ID
	if id == "" {
		var err error
		if id, err = r.NextID(ctx); err != nil {
			return "", fmt.Errorf("allocate order id: %w", err)
		}
	}
	if o.Type == "" {
		o.Type = "Normal"
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, name, address, location, phone, type, remark,
			total_order, discount, tax, extra, grand_total,
			payment_method, payment_phone, payment_name, payment_photo)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		id, o.UserID, o.Name, o.Address, o.Location, o.Phone, o.Type, o.Remark,
		o.TotalOrder, o.Discount, o.Tax, o.Extra, o.GrandTotal,
		o.PaymentMethod, o.PaymentPhone, o.PaymentName, o.PaymentPhoto,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	for i, it := range o.Items {
		extra, err := marshalExtra(it.Extra)
		if err != nil {
			return "", fmt.Errorf("encode item %d: %w", i+1, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, line_no, menu_id, shop_id, status, extra)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			id, i+1, it.MenuID, it.ShopID, int(StatusPending), extra,
		)
		if err != nil {
			return "", fmt.Errorf("insert order item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	o.ID = id
	for i := range o.Items {
		o.Items[i].Status = StatusPending
	}
	return id, nil
}

// Get loads one order with its full item list.
func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	itemsByOrder, err := r.loadItems(ctx, []string{id}, "")
	if err != nil {
		return nil, err
	}
	o.Items = itemsByOrder[id]
	if o.Items == nil {
		o.Items = ItemList{}
	}
	return o, nil
}

// ListReady returns orders awaiting deliveryman assignment: not done, not
// yet claimed, and with every item approved. Zero-item orders never match.
// Pure read; results are as current as the latest committed approval.
func (r *Repo) ListReady(ctx context.Context) ([]*Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+prefixed("o.", orderColumns)+`
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.orders_done = FALSE AND o.connected_deliveryman = FALSE
		GROUP BY o.id
		HAVING COUNT(*) FILTER (WHERE i.status <> $1) = 0
		ORDER BY o.id DESC`,
		int(StatusApproved),
	)
	if err != nil {
		return nil, fmt.Errorf("query ready orders: %w", err)
	}
	defer rows.Close()

	list, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, list, ""); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByShop returns orders containing at least one item for shopID, with
// each item list filtered down to that shop. An order whose filtered list
// would be empty is simply not selected.
func (r *Repo) ListByShop(ctx context.Context, shopID string) ([]*ShopOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.user_id, o.name, o.phone, o.type, o.remark, o.created_at, o.orders_done
		FROM orders o
		WHERE EXISTS (
			SELECT 1 FROM order_items i
			WHERE i.order_id = o.id AND btrim(i.shop_id) = btrim($1)
		)
		ORDER BY o.id DESC`,
		shopID,
	)
	if err != nil {
		return nil, fmt.Errorf("query shop orders: %w", err)
	}
	defer rows.Close()

	var list []*ShopOrder
	ids := make([]string, 0)
	for rows.Next() {
		var so ShopOrder
		if err := rows.Scan(&so.ID, &so.UserID, &so.Name, &so.Phone, &so.Type, &so.Remark, &so.CreatedAt, &so.OrdersDone); err != nil {
			return nil, fmt.Errorf("scan shop order: %w", err)
		}
		so.Items = ItemList{}
		list = append(list, &so)
		ids = append(ids, so.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	itemsByOrder, err := r.loadItems(ctx, ids, shopID)
	if err != nil {
		return nil, err
	}
	for _, so := range list {
		if items, ok := itemsByOrder[so.ID]; ok {
			so.Items = items
		}
	}
	return list, nil
}

// Claim marks an order as taken by a deliveryman, which removes it from
// the readiness list. Claiming an already claimed order is a no-op success;
// the race is decided by whoever commits first.
func (r *Repo) Claim(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "connected_deliveryman")
}

// MarkDone marks an order as completed.
func (r *Repo) MarkDone(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "orders_done")
}

func (r *Repo) setFlag(ctx context.Context, id, column string) error {
	// column is one of two fixed names, never caller input
	tag, err := r.DB.Exec(ctx, `UPDATE orders SET `+column+` = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// loadItems fetches items for a set of orders in line order, optionally
// restricted to one shop.
func (r *Repo) loadItems(ctx context.Context, orderIDs []string, shopID string) (map[string]ItemList, error) {
	q := `SELECT order_id, menu_id, shop_id, status, extra
		FROM order_items
		WHERE order_id = ANY($1)`
	args := []any{orderIDs}
	if shopID != "" {
		q += ` AND btrim(shop_id) = btrim($2)`
		args = append(args, shopID)
	}
	q += ` ORDER BY order_id, line_no`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ItemList, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			it      OrderItem
			status  int
			extra   []byte
		)
		if err := rows.Scan(&orderID, &it.MenuID, &it.ShopID, &status, &extra); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.Status = ItemStatus(status)
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &it.Extra); err != nil {
				return nil, fmt.Errorf("decode item extra for %s: %w", orderID, err)
			}
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func (r *Repo) attachItems(ctx context.Context, list []*Order, shopID string) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	for i, o := range list {
		ids[i] = o.ID
	}
	itemsByOrder, err := r.loadItems(ctx, ids, shopID)
	if err != nil {
		return err
	}
	for _, o := range list {
		o.Items = itemsByOrder[o.ID]
		if o.Items == nil {
			o.Items = ItemList{}
		}
	}
	return nil
}

func marshalExtra(extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	return json.Marshal(extra)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Name, &o.Address, &o.Location, &o.Phone, &o.Type, &o.Remark,
		&o.TotalOrder, &o.Discount, &o.Tax, &o.Extra, &o.GrandTotal,
		&o.PaymentMethod, &o.PaymentPhone, &o.PaymentName, &o.PaymentPhoto,
		&o.OrdersDone, &o.ConnectedDeliveryman, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]*Order, error) {
	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// prefixed rewrites a comma-separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
