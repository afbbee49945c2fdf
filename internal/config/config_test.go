package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.POSAddr != ":5000" {
		t.Errorf("POSAddr = %q, want :5000", cfg.POSAddr)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "kafka:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"a:9092", 1},
		{"a:9092, b:9092", 2},
		{"a:9092,,b:9092,", 2},
	}
	for _, tt := range tests {
		if got := splitCSV(tt.in); len(got) != tt.want {
			t.Errorf("splitCSV(%q) = %v, want %d brokers", tt.in, got, tt.want)
		}
	}
}
