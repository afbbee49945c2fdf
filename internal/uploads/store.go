// Package uploads stores base64-submitted photos on disk and exposes them
// per kind (menu, shop, ...) for static serving. The store is an explicit
// object handed to whoever needs it rather than package-level state.
package uploads

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kinds mirror the upload folders of the platform; each gets its own
// subdirectory and URL prefix.
const (
	KindOrders      = "orders_uploads"
	KindMenu        = "menu_uploads"
	KindShops       = "shop_uploads"
	KindIngredients = "ingredients_uploads"
	KindDeliverymen = "deliverymen_uploads"
	KindAccounts    = "account_uploads"
)

var kinds = []string{KindOrders, KindMenu, KindShops, KindIngredients, KindDeliverymen, KindAccounts}

type Store struct {
	base string
}

// New creates the base directory and one subdirectory per kind.
func New(base string) (*Store, error) {
	for _, k := range kinds {
		if err := os.MkdirAll(filepath.Join(base, k), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", k, err)
		}
	}
	return &Store{base: base}, nil
}

// Dir returns the on-disk directory for a kind, for static file serving.
func (s *Store) Dir(kind string) string { return filepath.Join(s.base, kind) }

// SaveBase64 decodes a base64 image payload (with or without a
// "data:image/...;base64," header) and writes it under the given kind.
// The filename is prefixed with the owning entity's id plus the current
// unix-millisecond timestamp, so names never collide across entities.
// Returns the path relative to the base dir, which is what gets persisted.
func (s *Store) SaveBase64(kind, ownerID, payload string) (string, error) {
	data, ext, err := DecodeBase64Image(payload)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%d.%s", ownerID, time.Now().UnixMilli(), ext)
	if err := os.WriteFile(filepath.Join(s.base, kind, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return kind + "/" + name, nil
}

// DecodeBase64Image strips an optional data-URL header, sniffs the image
// extension from it (default png), and decodes the remainder.
func DecodeBase64Image(payload string) (data []byte, ext string, err error) {
	ext = "png"
	if strings.HasPrefix(payload, "data:image/") {
		rest := payload[len("data:image/"):]
		sep := strings.Index(rest, ";base64,")
		if sep < 0 {
			return nil, "", fmt.Errorf("malformed image data url")
		}
		ext = rest[:sep]
		payload = rest[sep+len(";base64,"):]
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 image: %w", err)
	}
	return data, ext, nil
}
