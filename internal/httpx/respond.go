package httpx

import (
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

// writeStoreError hides storage detail from clients but keeps it in the log.
func writeStoreError(w http.ResponseWriter, err error) {
	log.Printf("store error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
