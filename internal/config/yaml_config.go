package config

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Set updates a key in the active config file, reactivating the key if it
// is present but commented out. Errors when no config file exists yet.
func Set(key, value string) error {
	path := FindPath()
	if path == "" {
		return fmt.Errorf("no %s/%s found (run 'ladder init' first)", Dir, FileName)
	}
	return SetIn(path, key, value)
}

// SetIn updates a key in a specific config file.
func SetIn(path, key, value string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	newContent := updateYamlKey(string(content), key, value)

	if err := os.WriteFile(path, []byte(newContent), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// updateYamlKey updates a key in yaml content, handling commented-out
// keys. An existing key (commented or not) is replaced in place with its
// indentation preserved; a missing key is appended at the end.
func updateYamlKey(content, key, value string) string {
	newLine := fmt.Sprintf("%s: %s", key, formatYamlValue(value))

	// Matches "key: value" or "# key: value" with optional leading
	// whitespace.
	keyPattern := regexp.MustCompile(`^(\s*)(#\s*)?` + regexp.QuoteMeta(key) + `\s*:`)

	found := false
	var result []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if keyPattern.MatchString(line) {
			matches := keyPattern.FindStringSubmatch(line)
			indent := ""
			if len(matches) > 1 {
				indent = matches[1]
			}
			result = append(result, indent+newLine)
			found = true
		} else {
			result = append(result, line)
		}
	}

	if !found {
		if len(result) > 0 && result[len(result)-1] != "" {
			result = append(result, "")
		}
		result = append(result, newLine)
	}

	return strings.Join(result, "\n")
}

// formatYamlValue formats a value appropriately for YAML.
func formatYamlValue(value string) string {
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower
	}
	if isNumeric(value) {
		return value
	}
	if needsQuoting(value) {
		return fmt.Sprintf("%q", value)
	}
	return value
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '-' && i == 0 {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	special := []string{":", "#", "[", "]", "{", "}", ",", "&", "*", "!", "|", ">", "'", "\"", "%", "@", "`"}
	for _, c := range special {
		if strings.Contains(s, c) {
			return true
		}
	}
	return strings.TrimSpace(s) != s
}
