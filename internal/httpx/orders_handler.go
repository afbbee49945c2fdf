package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/minkhant-dev/foodcourt/internal/kafka"
	"github.com/minkhant-dev/foodcourt/internal/orders"
	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

// OrderStore is what the handler needs from the order repository.
type OrderStore interface {
	NextID(ctx context.Context) (string, error)
	Create(ctx context.Context, o *orders.Order) (string, error)
	Get(ctx context.Context, id string) (*orders.Order, error)
	ListReady(ctx context.Context) ([]*orders.Order, error)
	ListByShop(ctx context.Context, shopID string) ([]*orders.ShopOrder, error)
	Claim(ctx context.Context, id string) error
	MarkDone(ctx context.Context, id string) error
}

// ApprovalEngine is the per-item approval surface.
type ApprovalEngine interface {
	ApproveItem(ctx context.Context, orderID, menuID string) error
	RejectItem(ctx context.Context, orderID, menuID string) error
	ApproveAll(ctx context.Context, orderID string) error
	RejectAll(ctx context.Context, orderID string) error
}

type OrdersHandler struct {
	Store     OrderStore
	Approvals ApprovalEngine
	Uploads   *uploads.Store
	Producer  *kafkax.Producer
	Service   string
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listReady)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/shop/{shopID}", h.listByShop)
	r.Post("/orders/approve-item", h.approveItem)
	r.Post("/orders/reject-item", h.rejectItem)
	r.Patch("/orders/approve-all/{id}", h.approveAll)
	r.Patch("/orders/reject-all/{id}", h.rejectAll)
	r.Patch("/orders/claim/{id}", h.claim)
	r.Patch("/orders/done/{id}", h.markDone)
}

type createOrderReq struct {
	UserID        string          `json:"userId"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Location      string          `json:"location"`
	Phone         string          `json:"phone"`
	Type          string          `json:"type"`
	Remark        string          `json:"remark"`
	Orders        orders.ItemList `json:"orders"`
	TotalOrder    string          `json:"total_order"`
	Discount      string          `json:"discount"`
	Tax           string          `json:"tax"`
	Extra         string          `json:"extra"`
	GrandTotal    string          `json:"grand_total"`
	PaymentMethod string          `json:"payment_method"`
	PaymentPhone  string          `json:"payment_phone"`
	PaymentName   string          `json:"payment_name"`
	PaymentPhoto  string          `json:"payment_photo"` // base64, possibly with data-url header
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateOrder(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" || len(req.Orders) == 0 || req.GrandTotal == "" || req.PaymentPhoto == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The id is allocated up front; the payment photo filename carries it.
	orderID, err := h.Store.NextID(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	photoPath, err := h.Uploads.SaveBase64(uploads.KindOrders, orderID, req.PaymentPhoto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment photo")
		return
	}

	o := &orders.Order{
		ID:       orderID,
		UserID:   req.UserID,
		Name:     req.Name,
		Address:  req.Address,
		Location: req.Location,
		Phone:    req.Phone,
		Type:     req.Type,
		Remark:   req.Remark,
		Items:    req.Orders,

		TotalOrder: zeroIfEmpty(req.TotalOrder),
		Discount:   zeroIfEmpty(req.Discount),
		Tax:        zeroIfEmpty(req.Tax),
		Extra:      zeroIfEmpty(req.Extra),
		GrandTotal: req.GrandTotal,

		PaymentMethod: req.PaymentMethod,
		PaymentPhone:  req.PaymentPhone,
		PaymentName:   req.PaymentName,
		PaymentPhoto:  photoPath,
	}
	if _, err := h.Store.Create(ctx, o); err != nil {
		writeStoreError(w, err)
		return
	}

	h.publishCreated(o, r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Your order has been placed; please wait for the shops to confirm it",
		"orderId": orderID,
		"photo":   photoPath,
	})
}

// decodeCreateOrder accepts the order either as a JSON body or as a
// multipart form whose "orders" field holds JSON text.
func decodeCreateOrder(r *http.Request) (*createOrderReq, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		var req createOrderReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errors.New("invalid json")
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, errors.New("form parse error")
	}
	req := createOrderReq{
		UserID:        r.FormValue("userId"),
		Name:          r.FormValue("name"),
		Address:       r.FormValue("address"),
		Location:      r.FormValue("location"),
		Phone:         r.FormValue("phone"),
		Type:          r.FormValue("type"),
		Remark:        r.FormValue("remark"),
		TotalOrder:    r.FormValue("total_order"),
		Discount:      r.FormValue("discount"),
		Tax:           r.FormValue("tax"),
		Extra:         r.FormValue("extra"),
		GrandTotal:    r.FormValue("grand_total"),
		PaymentMethod: r.FormValue("payment_method"),
		PaymentPhone:  r.FormValue("payment_phone"),
		PaymentName:   r.FormValue("payment_name"),
		PaymentPhoto:  r.FormValue("payment_photo"),
	}
	if v := r.FormValue("orders"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Orders); err != nil {
			return nil, errors.New("invalid orders json")
		}
	}
	return &req, nil
}

func (h *OrdersHandler) publishCreated(o *orders.Order, traceID string) {
	if h.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:    o.ID,
			UserID:     o.UserID,
			ShopIDs:    o.Items.ShopIDs(),
			ItemCount:  len(o.Items),
			GrandTotal: o.GrandTotal,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) listReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Store.ListReady(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []*orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(list),
		"data":    list,
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.Get(ctx, id)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": o})
}

func (h *OrdersHandler) listByShop(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shopID")
	if shopID == "" {
		writeError(w, http.StatusBadRequest, "missing shop id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Store.ListByShop(ctx, shopID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []*orders.ShopOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

type itemStatusReq struct {
	OrderID string `json:"orderId"`
	MenuID  string `json:"menu_id"`
}

func (h *OrdersHandler) approveItem(w http.ResponseWriter, r *http.Request) {
	h.setItemStatus(w, r, h.Approvals.ApproveItem, "Item approved")
}

func (h *OrdersHandler) rejectItem(w http.ResponseWriter, r *http.Request) {
	h.setItemStatus(w, r, h.Approvals.RejectItem, "Item rejected")
}

func (h *OrdersHandler) setItemStatus(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, string, string) error, okMsg string) {

	var req itemStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.OrderID == "" || req.MenuID == "" {
		writeError(w, http.StatusBadRequest, "orderId and menu_id are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := apply(ctx, req.OrderID, req.MenuID); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": okMsg})
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, orders.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found in order")
	default:
		writeStoreError(w, err)
	}
}

func (h *OrdersHandler) approveAll(w http.ResponseWriter, r *http.Request) {
	h.setAllStatuses(w, r, h.Approvals.ApproveAll, "All items approved")
}

func (h *OrdersHandler) rejectAll(w http.ResponseWriter, r *http.Request) {
	h.setAllStatuses(w, r, h.Approvals.RejectAll, "All items rejected")
}

func (h *OrdersHandler) setAllStatuses(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, string) error, okMsg string) {

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := apply(ctx, id); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": okMsg})
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	default:
		writeStoreError(w, err)
	}
}

func (h *OrdersHandler) claim(w http.ResponseWriter, r *http.Request) {
	h.setOrderFlag(w, r, h.Store.Claim, "Order claimed")
}

func (h *OrdersHandler) markDone(w http.ResponseWriter, r *http.Request) {
	h.setOrderFlag(w, r, h.Store.MarkDone, "Order completed")
}

func (h *OrdersHandler) setOrderFlag(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, string) error, okMsg string) {

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	switch err := apply(ctx, id); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": okMsg})
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	default:
		writeStoreError(w, err)
	}
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
