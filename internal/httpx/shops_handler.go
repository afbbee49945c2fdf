package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minkhant-dev/foodcourt/internal/shops"
	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

type ShopsHandler struct {
	Repo    *shops.Repo
	Uploads *uploads.Store
}

func (h *ShopsHandler) Register(r *chi.Mux) {
	r.Post("/shops", h.create)
	r.Post("/shops/login", h.login)
	r.Get("/shops", h.list)
	r.Get("/shops/{id}", h.get)
	r.Patch("/shops/permission/{id}", h.setPermission)
	r.Delete("/shops/{id}", h.remove)
}

type createShopReq struct {
	ShopkeeperName string `json:"shopkeeper_name"`
	ShopName       string `json:"shop_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
	Photo          string `json:"photo"`
	Items          int    `json:"items"`
	Address        string `json:"address"`
}

func (h *ShopsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createShopReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ShopName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "shop_name, email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s := &shops.Shop{
		ShopkeeperName: req.ShopkeeperName,
		ShopName:       req.ShopName,
		Email:          req.Email,
		Phone:          req.Phone,
		Items:          req.Items,
		Address:        req.Address,
	}
	if req.Photo != "" {
		path, err := h.Uploads.SaveBase64(uploads.KindShops, req.Email, req.Photo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		s.Photo = path
	}

	id, err := h.Repo.Create(ctx, s, req.Password)
	if errors.Is(err, shops.ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "email already in use")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Shop registered; waiting for approval",
		"shopId":  id,
	})
}

func (h *ShopsHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Repo.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, shops.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, "wrong email or password")
	case errors.Is(err, shops.ErrNotApproved):
		writeError(w, http.StatusForbidden, "shop is not approved yet")
	case err != nil:
		writeStoreError(w, err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s})
	}
}

func (h *ShopsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.List(ctx, r.URL.Query().Get("permission"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []shops.Shop{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

func (h *ShopsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Repo.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, shops.ErrNotFound) {
		writeError(w, http.StatusNotFound, "shop not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s})
}

func (h *ShopsHandler) setPermission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Permission string `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Permission != shops.PermissionApproved && req.Permission != shops.PermissionRejected {
		writeError(w, http.StatusBadRequest, "permission must be approved or rejected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.SetPermission(ctx, chi.URLParam(r, "id"), req.Permission)
	if errors.Is(err, shops.ErrNotFound) {
		writeError(w, http.StatusNotFound, "shop not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "permission": req.Permission})
}

func (h *ShopsHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Delete(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, shops.ErrNotFound) {
		writeError(w, http.StatusNotFound, "shop not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Shop deleted"})
}
