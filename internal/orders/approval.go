package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Approval flips the approval status of order lines. Because items live in
// their own rows, a status change is one atomic UPDATE keyed by primary
// key columns; two shops approving different items of the same order can
// never overwrite each other.
type Approval struct{ DB *pgxpool.Pool }

func (a *Approval) ApproveItem(ctx context.Context, orderID, menuID string) error {
	return a.setItemStatus(ctx, orderID, menuID, StatusApproved)
}

func (a *Approval) RejectItem(ctx context.Context, orderID, menuID string) error {
	return a.setItemStatus(ctx, orderID, menuID, StatusRejected)
}

func (a *Approval) ApproveAll(ctx context.Context, orderID string) error {
	return a.setAllStatuses(ctx, orderID, StatusApproved)
}

func (a *Approval) RejectAll(ctx context.Context, orderID string) error {
	return a.setAllStatuses(ctx, orderID, StatusRejected)
}

// setItemStatus updates every line of the order that references menuID.
// A menu id duplicated across lines (same dish, different customizations)
// has all its lines updated together; menu_id is the only key the callers
// have.
func (a *Approval) setItemStatus(ctx context.Context, orderID, menuID string, st ItemStatus) error {
	tag, err := a.DB.Exec(ctx,
		`UPDATE order_items SET status = $1 WHERE order_id = $2 AND menu_id = $3`,
		int(st), orderID, menuID,
	)
	if err != nil {
		return fmt.Errorf("update item status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing matched: distinguish a missing order from a missing item.
	exists, err := a.orderExists(ctx, orderID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrItemNotFound
}

// setAllStatuses updates every line of the order. An order with zero lines
// succeeds trivially; only a missing order is an error.
func (a *Approval) setAllStatuses(ctx context.Context, orderID string, st ItemStatus) error {
	exists, err := a.orderExists(ctx, orderID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	_, err = a.DB.Exec(ctx,
		`UPDATE order_items SET status = $1 WHERE order_id = $2`,
		int(st), orderID,
	)
	if err != nil {
		return fmt.Errorf("update all item statuses: %w", err)
	}
	return nil
}

func (a *Approval) orderExists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := a.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	return exists, nil
}
