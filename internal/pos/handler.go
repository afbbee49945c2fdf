package pos

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

type Handler struct {
	Repo    *Repo
	Uploads *uploads.Store
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/accounts", h.createAccount)
	r.Post("/accounts/login", h.loginAccount)
	r.Get("/accounts/{id}", h.getAccount)
	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Post("/shops", h.createShop)
	r.Put("/shops/{id}", h.updateShop)
	r.Get("/shops", h.listShops)
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/seller/{id}", h.listOrdersBySeller)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	log.Printf("pos store error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

type createAccountReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Photo    string `json:"photo"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "username, email, phone and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a := &Account{Username: req.Username, Email: req.Email, Phone: req.Phone, Role: req.Role}
	if req.Photo != "" {
		path, err := h.Uploads.SaveBase64(uploads.KindAccounts, req.Email, req.Photo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		a.Photo = path
	}

	id, err := h.Repo.CreateAccount(ctx, a, req.Password)
	if errors.Is(err, ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "email already in use")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "accountId": id})
}

func (h *Handler) loginAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, role, err := h.Repo.LoginAccount(ctx, req.Email, req.Password)
	if errors.Is(err, ErrBadCredentials) {
		writeError(w, http.StatusUnauthorized, "wrong email or password")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"accountId":   id,
		"accountRole": role,
	})
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	a, err := h.Repo.GetAccount(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": a})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.ID == "" || p.Name == "" || p.Quantity <= 0 || p.Price <= 0 || p.AlertDate == "" {
		writeError(w, http.StatusBadRequest, "id, name, quantity, price and alert_date are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Repo.CreateProduct(ctx, &p)
	if errors.Is(err, ErrDuplicateID) {
		writeError(w, http.StatusConflict, "item code already exists")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "productId": p.ID})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.ListProducts(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.GetProduct(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": p})
}

func (h *Handler) createShop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		Photo   string `json:"photo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID == "" || req.Name == "" || req.Phone == "" || req.Address == "" {
		writeError(w, http.StatusBadRequest, "id, name, phone and address are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s := Shop{ID: req.ID, Name: req.Name, Phone: req.Phone, Address: req.Address}
	if req.Photo != "" {
		path, err := h.Uploads.SaveBase64(uploads.KindShops, s.ID, req.Photo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		s.Photo = path
	}

	err := h.Repo.CreateShop(ctx, &s)
	if errors.Is(err, ErrDuplicateID) {
		writeError(w, http.StatusConflict, "shop code already exists")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "shopId": s.ID})
}

func (h *Handler) updateShop(w http.ResponseWriter, r *http.Request) {
	var s Shop
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	s.ID = chi.URLParam(r, "id")
	if s.Name == "" || s.Phone == "" || s.Address == "" {
		writeError(w, http.StatusBadRequest, "name, phone and address are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.UpdateShop(ctx, &s)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "shop not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Shop updated"})
}

func (h *Handler) listShops(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.ListShops(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []Shop{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var o Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if o.ShopName == "" || o.SellerID == "" || o.Item == "" || o.Quantity <= 0 ||
		o.Unit == "" || o.Date == "" || o.Phone == "" || o.Address == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Repo.CreateOrder(ctx, &o)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "orderId": id})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.ListOrders(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

func (h *Handler) listOrdersBySeller(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.ListOrdersBySeller(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "no orders for this seller")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}
