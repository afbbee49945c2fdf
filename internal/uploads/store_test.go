package uploads

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestDecodeBase64Image(t *testing.T) {
	raw, _ := base64.StdEncoding.DecodeString(tinyPNG)

	tests := []struct {
		name    string
		in      string
		wantExt string
		wantErr bool
	}{
		{"bare base64", tinyPNG, "png", false},
		{"png data url", "data:image/png;base64," + tinyPNG, "png", false},
		{"jpeg data url", "data:image/jpeg;base64," + tinyPNG, "jpeg", false},
		{"header without payload marker", "data:image/png", "", true},
		{"garbage", "not base64 at all!!!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ext, err := DecodeBase64Image(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if ext != tt.wantExt {
				t.Errorf("ext = %q, want %q", ext, tt.wantExt)
			}
			if string(data) != string(raw) {
				t.Error("decoded bytes differ from source")
			}
		})
	}
}

func TestStoreSaveBase64(t *testing.T) {
	base := t.TempDir()
	st, err := New(base)
	if err != nil {
		t.Fatal(err)
	}

	rel, err := st.SaveBase64(KindOrders, "O001", "data:image/png;base64,"+tinyPNG)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rel, KindOrders+"/O001_") || !strings.HasSuffix(rel, ".png") {
		t.Errorf("relative path = %q", rel)
	}
	if _, err := os.Stat(filepath.Join(base, rel)); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestNewCreatesKindDirs(t *testing.T) {
	base := t.TempDir()
	st, err := New(base)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{KindMenu, KindShops, KindDeliverymen} {
		info, err := os.Stat(st.Dir(k))
		if err != nil || !info.IsDir() {
			t.Errorf("kind dir %s not created: %v", k, err)
		}
	}
}
