package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minkhant-dev/foodcourt/internal/emailauth"
)

type EmailHandler struct {
	Codes *emailauth.Service
}

func (h *EmailHandler) Register(r *chi.Mux) {
	r.Post("/email/request-code", h.requestCode)
	r.Post("/email/verify-code", h.verifyCode)
}

func (h *EmailHandler) requestCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Codes.Request(ctx, req.Email); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Confirmation code sent"})
}

func (h *EmailHandler) verifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "email and code are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := h.Codes.Verify(ctx, req.Email, req.Code); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Email verified"})
	case errors.Is(err, emailauth.ErrCodeExpired):
		writeError(w, http.StatusGone, "confirmation code expired")
	case errors.Is(err, emailauth.ErrCodeMismatch):
		writeError(w, http.StatusBadRequest, "confirmation code does not match")
	default:
		writeStoreError(w, err)
	}
}
