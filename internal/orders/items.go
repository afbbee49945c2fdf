package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderItem is one line of an order. The approval engine only ever reads
// menu_id and shop_id and writes status; every other field a client sends
// (name, quantity, price, ...) is carried opaquely in Extra and survives
// round-trips untouched.
type OrderItem struct {
	MenuID string
	ShopID string
	Status ItemStatus
	Extra  map[string]json.RawMessage
}

func (it *OrderItem) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode order item: %w", err)
	}

	if v, ok := raw["menu_id"]; ok {
		if err := json.Unmarshal(v, &it.MenuID); err != nil {
			return fmt.Errorf("decode menu_id: %w", err)
		}
		delete(raw, "menu_id")
	}
	if v, ok := raw["shop_id"]; ok {
		if err := json.Unmarshal(v, &it.ShopID); err != nil {
			return fmt.Errorf("decode shop_id: %w", err)
		}
		delete(raw, "shop_id")
	}
	// A missing status means pending; order creation never sets it.
	it.Status = StatusPending
	if v, ok := raw["status"]; ok {
		if err := json.Unmarshal(v, &it.Status); err != nil {
			return fmt.Errorf("decode status: %w", err)
		}
		delete(raw, "status")
	}

	if len(raw) > 0 {
		it.Extra = raw
	}
	return nil
}

func (it OrderItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(it.Extra)+3)
	for k, v := range it.Extra {
		out[k] = v
	}
	var err error
	if out["menu_id"], err = json.Marshal(it.MenuID); err != nil {
		return nil, err
	}
	if out["shop_id"], err = json.Marshal(it.ShopID); err != nil {
		return nil, err
	}
	if out["status"], err = json.Marshal(it.Status); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// ItemList is an order's line items. On the wire it is a JSON array, but
// multipart clients send it as a JSON string containing an array, and some
// database drivers hand JSON columns back the same way, so decoding accepts
// both forms.
type ItemList []OrderItem

func (l *ItemList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode item list string: %w", err)
		}
		b = []byte(s)
	}
	var items []OrderItem
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("decode item list: %w", err)
	}
	*l = items
	return nil
}

// AllApproved reports whether the list is non-empty and every item has been
// approved. An order with zero items is never considered ready.
func (l ItemList) AllApproved() bool {
	if len(l) == 0 {
		return false
	}
	for _, it := range l {
		if it.Status != StatusApproved {
			return false
		}
	}
	return true
}

// FilterByShop returns only the items attributed to shopID, preserving
// order. Comparison trims whitespace on both sides.
func (l ItemList) FilterByShop(shopID string) ItemList {
	want := strings.TrimSpace(shopID)
	out := make(ItemList, 0, len(l))
	for _, it := range l {
		if strings.TrimSpace(it.ShopID) == want {
			out = append(out, it)
		}
	}
	return out
}

// ShopIDs returns the distinct trimmed shop ids in list order.
func (l ItemList) ShopIDs() []string {
	seen := make(map[string]bool, len(l))
	var out []string
	for _, it := range l {
		id := strings.TrimSpace(it.ShopID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
