package ui

import "testing"

func TestContentHeight(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single line no newline", "hello", 1},
		{"single line with newline", "hello\n", 2},
		{"three lines", "a\nb\nc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contentHeight(tt.content); got != tt.want {
				t.Errorf("contentHeight(%q) = %d, want %d", tt.content, got, tt.want)
			}
		})
	}
}

func TestPagerCommandPrecedence(t *testing.T) {
	t.Setenv("LADDER_PAGER", "")
	t.Setenv("PAGER", "")

	if got := pagerCommand(); got != "less" {
		t.Errorf("default pager = %q, want less", got)
	}

	t.Setenv("PAGER", "more")
	if got := pagerCommand(); got != "more" {
		t.Errorf("pager = %q, want more", got)
	}

	t.Setenv("LADDER_PAGER", "bat")
	if got := pagerCommand(); got != "bat" {
		t.Errorf("pager = %q, want bat (LADDER_PAGER wins)", got)
	}
}

func TestToPagerDisabled(t *testing.T) {
	// With disable set the content goes straight to stdout, so no pager
	// process is spawned and no error can occur.
	if err := ToPager("hello\n", true); err != nil {
		t.Errorf("ToPager with disable = %v, want nil", err)
	}
}
