package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minkhant-dev/foodcourt/internal/deliverymen"
	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

type DeliverymenHandler struct {
	Repo    *deliverymen.Repo
	Uploads *uploads.Store
}

func (h *DeliverymenHandler) Register(r *chi.Mux) {
	r.Post("/deliverymen", h.create)
	r.Post("/deliverymen/login", h.login)
	r.Get("/deliverymen", h.list)
	r.Get("/deliverymen/{id}", h.get)
	r.Put("/deliverymen/{id}", h.update)
	r.Patch("/deliverymen/status/{id}", h.toggleStatus)
	r.Delete("/deliverymen/{id}", h.remove)
}

type createDeliverymanReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
	Location string `json:"location"`
	WorkType string `json:"work_type"`
}

func (h *DeliverymenHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createDeliverymanReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d := &deliverymen.Deliveryman{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		WorkType: req.WorkType,
	}
	if req.Photo != "" {
		path, err := h.Uploads.SaveBase64(uploads.KindDeliverymen, req.Email, req.Photo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		d.Photo = path
	}

	id, err := h.Repo.Create(ctx, d, req.Password)
	if errors.Is(err, deliverymen.ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "email already in use")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "deliverymanId": id})
}

func (h *DeliverymenHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Repo.Login(ctx, req.Email, req.Password)
	if errors.Is(err, deliverymen.ErrBadCredentials) {
		writeError(w, http.StatusUnauthorized, "wrong email or password")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deliverymanId": id})
}

func (h *DeliverymenHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.List(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []deliverymen.Deliveryman{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

func (h *DeliverymenHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := h.Repo.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, deliverymen.ErrNotFound) {
		writeError(w, http.StatusNotFound, "deliveryman not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": d})
}

func (h *DeliverymenHandler) update(w http.ResponseWriter, r *http.Request) {
	var req createDeliverymanReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d := &deliverymen.Deliveryman{
		ID:       chi.URLParam(r, "id"),
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		WorkType: req.WorkType,
	}
	err := h.Repo.Update(ctx, d)
	if errors.Is(err, deliverymen.ErrNotFound) {
		writeError(w, http.StatusNotFound, "deliveryman not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Profile updated"})
}

func (h *DeliverymenHandler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, err := h.Repo.ToggleStatus(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, deliverymen.ErrNotFound) {
		writeError(w, http.StatusNotFound, "deliveryman not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

func (h *DeliverymenHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Delete(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, deliverymen.ErrNotFound) {
		writeError(w, http.StatusNotFound, "deliveryman not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Deliveryman deleted"})
}
