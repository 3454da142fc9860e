package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// ToPager pipes content through the user's pager when stdout is a
// terminal and the content exceeds the screen height. Otherwise, or when
// disable is set, the content is printed directly. LADDER_NO_PAGER
// disables paging globally.
func ToPager(content string, disable bool) error {
	if disable || os.Getenv("LADDER_NO_PAGER") != "" || !IsTerminal() {
		fmt.Print(content)
		return nil
	}

	if height := terminalHeight(); height > 0 && contentHeight(content) <= height-1 {
		fmt.Print(content)
		return nil
	}

	parts := strings.Fields(pagerCommand())
	if len(parts) == 0 {
		fmt.Print(content)
		return nil
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 - pager command is user-configurable by design
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// -R keeps ANSI colors, -F quits when one screen suffices, -X skips
	// the screen clear on exit.
	if os.Getenv("LESS") == "" {
		cmd.Env = append(os.Environ(), "LESS=-RFX")
	} else {
		cmd.Env = os.Environ()
	}

	return cmd.Run()
}

// pagerCommand returns the pager to use: LADDER_PAGER, then PAGER, then
// less.
func pagerCommand() string {
	if pager := os.Getenv("LADDER_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

func terminalHeight() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, height, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return height
}

func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}
