package ui

import "testing"

func TestTruncateSimple(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{"short text unchanged", "SIT: Login", 20, "SIT: Login"},
		{"exact length unchanged", "abcde", 5, "abcde"},
		{"long text truncated", "SIT: Checkout flow regression", 12, "SIT: Chec..."},
		{"tiny budget collapses to ellipsis", "abcdef", 3, "..."},
		{"multibyte runes counted not bytes", "日本語テキストです", 6, "日本語..."},
		{"empty text", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateSimple(tt.text, tt.maxLen); got != tt.want {
				t.Errorf("TruncateSimple(%q, %d) = %q, want %q", tt.text, tt.maxLen, got, tt.want)
			}
		})
	}
}
