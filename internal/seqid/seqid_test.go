package seqid

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		prefix string
		seq    int
		want   string
	}{
		{"O", 1, "O001"},
		{"O", 43, "O043"},
		{"O", 999, "O999"},
		{"O", 1000, "O1000"},
		{"S001_M", 1, "S001_M001"},
		{"S001_M", 7, "S001_M007"},
		{"U", 42, "U042"},
	}
	for _, tt := range tests {
		if got := Format(tt.prefix, tt.seq, 3); got != tt.want {
			t.Errorf("Format(%q, %d) = %q, want %q", tt.prefix, tt.seq, got, tt.want)
		}
	}
}

func TestSuffixOf(t *testing.T) {
	tests := []struct {
		id, prefix string
		want       int
		wantErr    bool
	}{
		{"O042", "O", 42, false},
		{"O001", "O", 1, false},
		{"O1000", "O", 1000, false},
		{"S001_M007", "S001_M", 7, false},
		{"S001_M007", "S002_M", 0, true},
		{"O", "O", 0, true},
		{"Oxyz", "O", 0, true},
	}
	for _, tt := range tests {
		got, err := SuffixOf(tt.id, tt.prefix)
		if (err != nil) != tt.wantErr {
			t.Errorf("SuffixOf(%q, %q) error = %v, wantErr %v", tt.id, tt.prefix, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("SuffixOf(%q, %q) = %d, want %d", tt.id, tt.prefix, got, tt.want)
		}
	}
}

// Next after O042 must produce O043; an empty scope starts at the base value.
func TestSequenceContinuation(t *testing.T) {
	last, err := SuffixOf("O042", "O")
	if err != nil {
		t.Fatal(err)
	}
	if got := Format("O", last+1, 3); got != "O043" {
		t.Errorf("next after O042 = %q, want O043", got)
	}
	if got := Format("O", 0+1, 3); got != "O001" {
		t.Errorf("base id = %q, want O001", got)
	}
	if got := Format("S001_M", 0+1, 3); got != "S001_M001" {
		t.Errorf("base menu id = %q, want S001_M001", got)
	}
}

func TestScopeShapes(t *testing.T) {
	if sc := Menu("S001"); sc.Prefix != "S001_M" || sc.Key != "menu:S001" {
		t.Errorf("Menu scope = %+v", sc)
	}
	if sc := Orders(); sc.Prefix != "O" || sc.Width != 3 {
		t.Errorf("Orders scope = %+v", sc)
	}
	if sc := Categories("S009"); sc.Prefix != "S009_C" {
		t.Errorf("Categories scope = %+v", sc)
	}
}
