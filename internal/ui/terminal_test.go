package ui

import (
	"os"
	"testing"
)

func TestShouldUseColor(t *testing.T) {
	origNoColor, hadNoColor := os.LookupEnv("NO_COLOR")
	origCliColor := os.Getenv("CLICOLOR")
	origForce := os.Getenv("CLICOLOR_FORCE")
	defer func() {
		if hadNoColor {
			os.Setenv("NO_COLOR", origNoColor)
		} else {
			os.Unsetenv("NO_COLOR")
		}
		restoreEnv("CLICOLOR", origCliColor)
		restoreEnv("CLICOLOR_FORCE", origForce)
	}()

	tests := []struct {
		name          string
		noColor       *string
		cliColor      string
		cliColorForce string
		want          bool
		ttyDependent  bool // expected value depends on TTY state; skip assertion
	}{
		{
			name:    "NO_COLOR disables color",
			noColor: strPtr("1"),
			want:    false,
		},
		{
			name:    "NO_COLOR set but empty still disables",
			noColor: strPtr(""),
			want:    false,
		},
		{
			name:     "CLICOLOR=0 disables color",
			cliColor: "0",
			want:     false,
		},
		{
			name:          "CLICOLOR_FORCE enables color even in non-TTY",
			cliColorForce: "1",
			want:          true,
		},
		{
			name:          "NO_COLOR takes precedence over CLICOLOR_FORCE",
			noColor:       strPtr("1"),
			cliColorForce: "1",
			want:          false,
		},
		{
			name:         "no overrides falls back to TTY check",
			ttyDependent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("NO_COLOR")
			os.Unsetenv("CLICOLOR")
			os.Unsetenv("CLICOLOR_FORCE")

			if tt.noColor != nil {
				os.Setenv("NO_COLOR", *tt.noColor)
			}
			if tt.cliColor != "" {
				os.Setenv("CLICOLOR", tt.cliColor)
			}
			if tt.cliColorForce != "" {
				os.Setenv("CLICOLOR_FORCE", tt.cliColorForce)
			}

			got := ShouldUseColor()
			if tt.ttyDependent {
				t.Logf("ShouldUseColor() = %v (TTY-dependent)", got)
				return
			}
			if got != tt.want {
				t.Errorf("ShouldUseColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldUseEmoji(t *testing.T) {
	orig := os.Getenv("LADDER_NO_EMOJI")
	defer restoreEnv("LADDER_NO_EMOJI", orig)

	os.Setenv("LADDER_NO_EMOJI", "1")
	if ShouldUseEmoji() {
		t.Error("ShouldUseEmoji() = true with LADDER_NO_EMOJI set")
	}

	// Without the override the result follows the TTY check; under go test
	// stdout is typically not a terminal.
	os.Unsetenv("LADDER_NO_EMOJI")
	t.Logf("ShouldUseEmoji() = %v (TTY-dependent)", ShouldUseEmoji())
}

func TestIsTerminal(t *testing.T) {
	// Can't assert the value under go test; just verify it doesn't panic.
	t.Logf("IsTerminal() = %v", IsTerminal())
}

func restoreEnv(key, value string) {
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}

func strPtr(s string) *string {
	return &s
}
