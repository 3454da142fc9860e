// Package config loads and updates ladder's YAML configuration.
//
// The active file is .ladder/config.yaml in the working directory or any
// parent, falling back to ~/.config/ladder/config.yaml. Credential keys
// can be overridden by environment variables; everything else comes from
// the file only, so an env var can never silently redirect a sync.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
)

// Dir is the per-project configuration directory.
const Dir = ".ladder"

// FileName is the configuration file inside Dir.
const FileName = "config.yaml"

// envOverrides maps config keys to environment variables that take
// precedence over file values. Limited to endpoint and credentials.
var envOverrides = map[string]string{
	"jira.url":      "JIRA_URL",
	"jira.username": "JIRA_USERNAME",
	"jira.token":    "JIRA_API_TOKEN",
}

// Keys understood by the config commands. Unknown keys are still stored;
// this list drives `ladder config list` completeness and init scaffolding.
var KnownKeys = []string{
	"jira.url",
	"jira.username",
	"jira.token",
	"jira.insecure_tls",
	"jira.epic_link_type_id",
	"jira.story_parent_field",
	"jira.epic_name_field",
	"sync.jql",
	"sync.template",
	"sync.suffix",
}

// Config is a loaded configuration. The zero value reads as empty, with
// env overrides still applied.
type Config struct {
	v    *viper.Viper
	path string
}

// FindPath locates the active config file. Walks from the working
// directory up to the filesystem root looking for .ladder/config.yaml,
// then tries ~/.config/ladder/config.yaml. Returns "" when neither
// exists.
func FindPath() string {
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			p := filepath.Join(dir, Dir, FileName)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "ladder", FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the active config file. A missing file yields an empty
// config, not an error.
func Load() (*Config, error) {
	return LoadFile(FindPath())
}

// LoadFile reads a specific config file. An empty path yields an empty
// config.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{path: path}
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg.v = v
	return cfg, nil
}

// Path returns the file this config was loaded from, "" when none.
func (c *Config) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// GetString returns a key's value. Environment overrides win over file
// values for the keys that have one.
func (c *Config) GetString(key string) string {
	if env, ok := envOverrides[key]; ok {
		if val := os.Getenv(env); val != "" {
			return val
		}
	}
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// GetBool returns a key's boolean value, false when unset.
func (c *Config) GetBool(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

// Entries returns key/value pairs for listing, sorted by key. File keys
// come first-class; env-only overrides appear even without a file entry.
func (c *Config) Entries() [][2]string {
	seen := make(map[string]bool)
	var keys []string

	if c != nil && c.v != nil {
		for _, k := range c.v.AllKeys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	for k, env := range envOverrides {
		if !seen[k] && os.Getenv(env) != "" {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	entries := make([][2]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, [2]string{k, c.GetString(k)})
	}
	return entries
}
