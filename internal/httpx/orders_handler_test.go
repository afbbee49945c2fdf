package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/minkhant-dev/foodcourt/internal/orders"
	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

type stubStore struct {
	seq     int
	created []*orders.Order
	byID    map[string]*orders.Order
	ready   []*orders.Order
	byShop  map[string][]*orders.ShopOrder
}

func newStubStore() *stubStore {
	return &stubStore{
		byID:   map[string]*orders.Order{},
		byShop: map[string][]*orders.ShopOrder{},
	}
}

func (s *stubStore) NextID(ctx context.Context) (string, error) {
	s.seq++
	return fmt.Sprintf("O%03d", s.seq), nil
}

func (s *stubStore) Create(ctx context.Context, o *orders.Order) (string, error) {
	if len(o.Items) == 0 {
		return "", orders.ErrNoItems
	}
	for i := range o.Items {
		o.Items[i].Status = orders.StatusPending
	}
	s.created = append(s.created, o)
	s.byID[o.ID] = o
	return o.ID, nil
}

func (s *stubStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	o, ok := s.byID[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

func (s *stubStore) ListReady(ctx context.Context) ([]*orders.Order, error) {
	return s.ready, nil
}

func (s *stubStore) ListByShop(ctx context.Context, shopID string) ([]*orders.ShopOrder, error) {
	return s.byShop[shopID], nil
}

func (s *stubStore) Claim(ctx context.Context, id string) error {
	o, ok := s.byID[id]
	if !ok {
		return orders.ErrNotFound
	}
	o.ConnectedDeliveryman = true
	return nil
}

func (s *stubStore) MarkDone(ctx context.Context, id string) error {
	o, ok := s.byID[id]
	if !ok {
		return orders.ErrNotFound
	}
	o.OrdersDone = true
	return nil
}

type stubApprovals struct {
	orderErr map[string]error
	calls    []string
}

func (a *stubApprovals) apply(orderID, menuID, op string) error {
	if err, ok := a.orderErr[orderID]; ok {
		return err
	}
	a.calls = append(a.calls, op+":"+orderID+":"+menuID)
	return nil
}

func (a *stubApprovals) ApproveItem(ctx context.Context, orderID, menuID string) error {
	return a.apply(orderID, menuID, "approve")
}
func (a *stubApprovals) RejectItem(ctx context.Context, orderID, menuID string) error {
	return a.apply(orderID, menuID, "reject")
}
func (a *stubApprovals) ApproveAll(ctx context.Context, orderID string) error {
	return a.apply(orderID, "*", "approve-all")
}
func (a *stubApprovals) RejectAll(ctx context.Context, orderID string) error {
	return a.apply(orderID, "*", "reject-all")
}

func newTestRouter(t *testing.T, store OrderStore, approvals ApprovalEngine) *chi.Mux {
	t.Helper()
	up, err := uploads.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := &OrdersHandler{Store: store, Approvals: approvals, Uploads: up, Service: "api-test"}
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

const orderPayload = `{
	"userId": "U001",
	"name": "Aung",
	"orders": [
		{"menu_id": "S001_M001", "shop_id": "S001", "name": "Mohinga", "quantity": 2},
		{"menu_id": "S002_M005", "shop_id": "S002", "name": "Tea", "quantity": 1}
	],
	"grand_total": "9500",
	"payment_photo": "aGVsbG8="
}`

func TestCreateOrder(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store, &stubApprovals{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderPayload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	if body["orderId"] != "O001" {
		t.Fatalf("orderId = %v", body["orderId"])
	}
	photo, _ := body["photo"].(string)
	if !strings.HasPrefix(photo, "orders_uploads/O001_") {
		t.Fatalf("photo = %q", photo)
	}

	o := store.created[0]
	if len(o.Items) != 2 {
		t.Fatalf("items = %d", len(o.Items))
	}
	for i, it := range o.Items {
		if it.Status != orders.StatusPending {
			t.Fatalf("item %d status = %v, want pending", i, it.Status)
		}
	}
	if o.TotalOrder != "0" || o.Discount != "0" {
		t.Fatalf("omitted money fields should default to 0, got %q %q", o.TotalOrder, o.Discount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing user", `{"orders":[{"menu_id":"m","shop_id":"s"}],"grand_total":"1","payment_photo":"aGVsbG8="}`},
		{"empty items", `{"userId":"U001","orders":[],"grand_total":"1","payment_photo":"aGVsbG8="}`},
		{"missing grand total", `{"userId":"U001","orders":[{"menu_id":"m","shop_id":"s"}],"payment_photo":"aGVsbG8="}`},
		{"missing photo", `{"userId":"U001","orders":[{"menu_id":"m","shop_id":"s"}],"grand_total":"1"}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubStore()
			r := newTestRouter(t, store, &stubApprovals{})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if len(store.created) != 0 {
				t.Fatal("order should not be created")
			}
		})
	}
}

func TestCreateOrderMultipartForm(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store, &stubApprovals{})

	var buf strings.Builder
	const boundary = "testboundary"
	field := func(name, value string) {
		fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=%q\r\n\r\n%s\r\n", boundary, name, value)
	}
	field("userId", "U002")
	field("orders", `[{"menu_id":"S001_M001","shop_id":"S001"}]`)
	field("grand_total", "3000")
	field("payment_photo", "aGVsbG8=")
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if store.created[0].UserID != "U002" {
		t.Fatalf("userId = %q", store.created[0].UserID)
	}
}

func TestListReady(t *testing.T) {
	store := newStubStore()
	store.ready = []*orders.Order{
		{ID: "O007", Items: orders.ItemList{{MenuID: "m", ShopID: "s", Status: orders.StatusApproved}}},
	}
	r := newTestRouter(t, store, &stubApprovals{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Fatalf("count = %v", body["count"])
	}
}

func TestListReadyEmpty(t *testing.T) {
	r := newTestRouter(t, newStubStore(), &stubApprovals{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	body := decodeBody(t, rec)
	if body["count"] != float64(0) {
		t.Fatalf("count = %v", body["count"])
	}
	if _, ok := body["data"].([]any); !ok {
		t.Fatalf("data should be an empty array, got %T", body["data"])
	}
}

func TestGetOrderNotFound(t *testing.T) {
	r := newTestRouter(t, newStubStore(), &stubApprovals{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/O999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListByShop(t *testing.T) {
	store := newStubStore()
	store.byShop["S001"] = []*orders.ShopOrder{
		{ID: "O001", Items: orders.ItemList{{MenuID: "S001_M001", ShopID: "S001"}}},
	}
	r := newTestRouter(t, store, &stubApprovals{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/shop/S001", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data, _ := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("data = %v", body["data"])
	}
}

func TestApproveItem(t *testing.T) {
	approvals := &stubApprovals{}
	r := newTestRouter(t, newStubStore(), approvals)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/approve-item",
		strings.NewReader(`{"orderId":"O001","menu_id":"S001_M001"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if len(approvals.calls) != 1 || approvals.calls[0] != "approve:O001:S001_M001" {
		t.Fatalf("calls = %v", approvals.calls)
	}
}

func TestApproveItemValidation(t *testing.T) {
	for _, body := range []string{
		`{"menu_id":"S001_M001"}`,
		`{"orderId":"O001"}`,
		`not json`,
	} {
		approvals := &stubApprovals{}
		r := newTestRouter(t, newStubStore(), approvals)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders/approve-item", strings.NewReader(body))
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
		if len(approvals.calls) != 0 {
			t.Fatalf("body %q: engine should not be called", body)
		}
	}
}

func TestApproveItemNotFoundMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unknown order", orders.ErrNotFound, "order not found"},
		{"unknown item", orders.ErrItemNotFound, "item not found in order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approvals := &stubApprovals{orderErr: map[string]error{"O001": tt.err}}
			r := newTestRouter(t, newStubStore(), approvals)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/orders/reject-item",
				strings.NewReader(`{"orderId":"O001","menu_id":"S001_M001"}`))
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			if msg := decodeBody(t, rec)["message"]; msg != tt.want {
				t.Fatalf("message = %v, want %q", msg, tt.want)
			}
		})
	}
}

func TestApproveAll(t *testing.T) {
	approvals := &stubApprovals{}
	r := newTestRouter(t, newStubStore(), approvals)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/approve-all/O004", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if len(approvals.calls) != 1 || approvals.calls[0] != "approve-all:O004:*" {
		t.Fatalf("calls = %v", approvals.calls)
	}
}

func TestClaimOrder(t *testing.T) {
	store := newStubStore()
	store.byID["O005"] = &orders.Order{ID: "O005"}
	r := newTestRouter(t, store, &stubApprovals{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/claim/O005", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !store.byID["O005"].ConnectedDeliveryman {
		t.Fatal("order should be marked claimed")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/claim/O404", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown order: status = %d, want 404", rec.Code)
	}
}

func TestRejectAllNotFound(t *testing.T) {
	approvals := &stubApprovals{orderErr: map[string]error{"O999": orders.ErrNotFound}}
	r := newTestRouter(t, newStubStore(), approvals)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/reject-all/O999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
