package orders

import "time"

// Order is the customer-facing order header plus its line items. One order
// can span several shops; each line item carries its own shop attribution
// and approval status. Monetary fields are computed by the caller and
// stored as given, never recomputed server-side.
type Order struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location string   `json:"location"`
	Phone    string   `json:"phone"`
	Type     string   `json:"type"`
	Remark   string   `json:"remark"`
	Items    ItemList `json:"orders"`

	TotalOrder string `json:"total_order"`
	Discount   string `json:"discount"`
	Tax        string `json:"tax"`
	Extra      string `json:"extra"`
	GrandTotal string `json:"grand_total"`

	PaymentMethod string `json:"payment_method"`
	PaymentPhone  string `json:"payment_phone"`
	PaymentName   string `json:"payment_name"`
	PaymentPhoto  string `json:"payment_photo"`

	OrdersDone           bool      `json:"orders_done"`
	ConnectedDeliveryman bool      `json:"connected_deliveryman"`
	CreatedAt            time.Time `json:"created_at"`
}

// ShopOrder is the shop-scoped view of an order: shared header fields plus
// only the items belonging to the requesting shop.
type ShopOrder struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Type       string    `json:"type"`
	Remark     string    `json:"remark"`
	CreatedAt  time.Time `json:"created_at"`
	OrdersDone bool      `json:"orders_done"`
	Items      ItemList  `json:"orders"`
}
