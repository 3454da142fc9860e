// Package creds resolves the tracker endpoint and authentication material.
//
// A StaticSource carries values already resolved from flags, config file,
// and environment. A PromptSource completes a partial StaticSource by
// asking on the terminal for whatever is missing, token input with echo
// disabled. Consumers see only the Source interface and never learn where
// a value came from.
package creds

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Source provides a Jira base URL and authentication material.
type Source interface {
	BaseURL() (string, error)
	// Credentials returns the username and API token. An empty username
	// selects bearer-token authentication.
	Credentials() (username, token string, err error)
}

// StaticSource holds pre-resolved values. Empty fields are configuration
// errors except Username, which is legitimately blank for token-only auth.
type StaticSource struct {
	URL      string
	Username string
	Token    string
}

func (s StaticSource) BaseURL() (string, error) {
	if s.URL == "" {
		return "", fmt.Errorf("no Jira URL configured (set jira.url or JIRA_URL)")
	}
	return s.URL, nil
}

func (s StaticSource) Credentials() (string, string, error) {
	if s.Token == "" {
		return "", "", fmt.Errorf("no API token configured (set jira.token or JIRA_API_TOKEN)")
	}
	return s.Username, s.Token, nil
}

// readPassword is swapped out in tests; terminals only.
var readPassword = term.ReadPassword

// PromptSource completes a partial StaticSource interactively. Values the
// static source already has are never asked for again; prompted values are
// retained so repeated calls ask at most once.
type PromptSource struct {
	Static StaticSource
	In     io.Reader // defaults to os.Stdin
	Out    io.Writer // defaults to os.Stderr

	reader *bufio.Reader
}

// NewPromptSource wraps pre-resolved values for interactive completion.
func NewPromptSource(static StaticSource) *PromptSource {
	return &PromptSource{Static: static}
}

func (p *PromptSource) BaseURL() (string, error) {
	if p.Static.URL != "" {
		return p.Static.URL, nil
	}
	url, err := p.readLine("Jira URL: ")
	if err != nil {
		return "", fmt.Errorf("read url: %w", err)
	}
	if url == "" {
		return "", fmt.Errorf("no Jira URL provided")
	}
	p.Static.URL = url
	return url, nil
}

func (p *PromptSource) Credentials() (string, string, error) {
	if p.Static.Username == "" {
		username, err := p.readLine("Username (blank for token-only auth): ")
		if err != nil {
			return "", "", fmt.Errorf("read username: %w", err)
		}
		p.Static.Username = username
	}
	if p.Static.Token == "" {
		fmt.Fprint(p.out(), "API token: ")
		tokenBytes, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(p.out())
		if err != nil {
			return "", "", fmt.Errorf("read token: %w", err)
		}
		token := strings.TrimSpace(string(tokenBytes))
		if token == "" {
			return "", "", fmt.Errorf("no API token provided")
		}
		p.Static.Token = token
	}
	return p.Static.Username, p.Static.Token, nil
}

func (p *PromptSource) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out(), prompt)
	if p.reader == nil {
		in := p.In
		if in == nil {
			in = os.Stdin
		}
		p.reader = bufio.NewReader(in)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *PromptSource) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stderr
}
