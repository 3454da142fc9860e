package main

import "testing"

func TestIsKnownConfigKey(t *testing.T) {
	for _, key := range []string{"jira.url", "jira.token", "sync.jql", "sync.suffix"} {
		if !isKnownConfigKey(key) {
			t.Errorf("%s should be a known key", key)
		}
	}
	for _, key := range []string{"jira.nope", "sync", ""} {
		if isKnownConfigKey(key) {
			t.Errorf("%s should not be a known key", key)
		}
	}
}
