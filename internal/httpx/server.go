package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// cors answers preflights and lets browser clients reach the API directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MountUploads serves each upload kind under its hyphenated URL prefix
// ("menu_uploads" -> /menu-uploads/...).
func MountUploads(r *chi.Mux, store *uploads.Store) {
	for _, kind := range []string{
		uploads.KindOrders, uploads.KindMenu, uploads.KindShops,
		uploads.KindIngredients, uploads.KindDeliverymen, uploads.KindAccounts,
	} {
		prefix := "/" + strings.ReplaceAll(kind, "_", "-") + "/"
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(store.Dir(kind))))
		r.Handle(prefix+"*", fs)
	}
}
