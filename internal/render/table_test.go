package render

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	out := Table([]string{"Category", "Count"}, [][]string{{"clear_road", "3"}, {"fully_covered"}}, []Alignment{AlignLeft, AlignRight})
	for _, want := range []string{"Category", "clear_road", "fully_covered", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in table:\n%s", want, out)
		}
	}
	if Table(nil, nil, nil) != "" {
		t.Errorf("Expected empty output without headers")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 2, "ab"},
		{"ééééé", 4, "é..."},
		{"ééé", 2, "éé"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
