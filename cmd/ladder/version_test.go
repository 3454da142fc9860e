package main

import (
	"strings"
	"testing"
)

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef0123"); got != "0123456789ab" {
		t.Errorf("expected 12-char commit, got %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("short hashes should pass through, got %q", got)
	}
}

func TestVersionStringWithBuildMetadata(t *testing.T) {
	oldCommit, oldBranch := Commit, Branch
	defer func() { Commit, Branch = oldCommit, oldBranch }()

	Commit = "0123456789abcdef0123"
	Branch = "main"

	s := versionString()
	if !strings.HasPrefix(s, "ladder version "+Version) {
		t.Errorf("unexpected version prefix: %q", s)
	}
	if !strings.Contains(s, "0123456789ab@main") {
		t.Errorf("expected short commit and branch, got %q", s)
	}
}
