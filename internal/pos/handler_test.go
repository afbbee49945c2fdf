package pos

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

// Validation runs before any repository call, so these requests must be
// rejected without touching the database.
func TestHandlerValidation(t *testing.T) {
	up, err := uploads.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := &Handler{Uploads: up}
	r := chi.NewRouter()
	h.Register(r)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"account missing fields", http.MethodPost, "/accounts", `{"username":"mk"}`},
		{"account bad json", http.MethodPost, "/accounts", `{`},
		{"login missing password", http.MethodPost, "/accounts/login", `{"email":"a@b.c"}`},
		{"product missing id", http.MethodPost, "/products", `{"name":"Rice","quantity":5,"price":100,"alert_date":"2026-01-01"}`},
		{"product zero quantity", http.MethodPost, "/products", `{"id":"P1","name":"Rice","quantity":0,"price":100,"alert_date":"2026-01-01"}`},
		{"shop missing address", http.MethodPost, "/shops", `{"id":"SH1","name":"Main","phone":"09"}`},
		{"order missing seller", http.MethodPost, "/orders", `{"shop_name":"Main","item":"Rice","quantity":2,"unit":"kg","date":"2026-01-01","phone":"09","address":"Yangon"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}
