// Package template loads and resolves child-issue field templates.
//
// A template is a field document (JSON, YAML, or TOML) whose keys pass
// through verbatim to issue creation. Two keys are mandatory:
// issuetype.name, which must be "Epic" or "Story" and selects the link
// strategy, and summary, which doubles as the prefix when suffix mode is
// active. A loaded Template is immutable; Resolve returns a fresh field
// set per call so no per-parent state leaks into later iterations.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ChildType is the hierarchy level of the issues a template creates.
type ChildType string

const (
	ChildEpic  ChildType = "Epic"
	ChildStory ChildType = "Story"
)

// suffixMarker is stripped from parent summaries during suffix derivation,
// together with any bracketed or parenthesized annotation.
const suffixMarker = "ST: SIT -"

// annotationRe removes "(...)" and "[...]" annotations, shortest match.
// The character classes deliberately accept mixed pairs like "(legacy]";
// summaries in the wild contain both and the derivation treats them alike.
var annotationRe = regexp.MustCompile(`[\(\[].*?[\)\]]`)

// Template is an immutable, validated field template.
type Template struct {
	fields      map[string]interface{}
	baseSummary string
	childType   ChildType
}

// Load reads and validates a template file. The format is chosen by
// extension: .json, .yaml/.yml, or .toml.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	fields, err := decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", filepath.Base(path), err)
	}

	return New(fields)
}

// New validates a raw field document and captures the base summary.
func New(fields map[string]interface{}) (*Template, error) {
	summary, ok := fields["summary"].(string)
	if !ok || summary == "" {
		return nil, fmt.Errorf("template missing required string field %q", "summary")
	}

	childType, err := childTypeOf(fields)
	if err != nil {
		return nil, err
	}

	return &Template{
		fields:      deepCopyFields(fields),
		baseSummary: summary,
		childType:   childType,
	}, nil
}

func decode(data []byte, ext string) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported template format %q (use .json, .yaml, or .toml)", ext)
	}
	return fields, nil
}

func childTypeOf(fields map[string]interface{}) (ChildType, error) {
	issueType, ok := fields["issuetype"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("template missing required field %q", "issuetype")
	}
	name, ok := issueType["name"].(string)
	if !ok {
		return "", fmt.Errorf("template issuetype missing %q", "name")
	}
	switch ChildType(name) {
	case ChildEpic, ChildStory:
		return ChildType(name), nil
	}
	return "", fmt.Errorf("template issuetype.name must be %q or %q, got %q", ChildEpic, ChildStory, name)
}

// ChildType returns the hierarchy level this template creates.
func (t *Template) ChildType() ChildType {
	return t.childType
}

// BaseSummary returns the template's original summary value. It never
// changes after load, so repeated suffix concatenation cannot compound.
func (t *Template) BaseSummary() string {
	return t.baseSummary
}

// Fields returns a deep copy of the raw field document.
func (t *Template) Fields() map[string]interface{} {
	return deepCopyFields(t.fields)
}

// Resolve produces the concrete field set for a child of the given parent.
// The returned map is a fresh copy; callers may mutate it freely.
//
// With suffix mode off the template fields are returned unchanged. With it
// on, the parent summary is stripped of bracketed annotations and the
// suffix marker, and the result is appended to the base summary. Spacing
// is preserved exactly as the two substitutions produce it. For Epic
// templates the epicNameField (when non-empty) is set to the same value.
func (t *Template) Resolve(parentSummary string, suffixEnabled bool, epicNameField string) map[string]interface{} {
	fields := deepCopyFields(t.fields)
	if !suffixEnabled {
		return fields
	}

	summary := t.baseSummary + deriveSuffix(parentSummary)
	fields["summary"] = summary
	if t.childType == ChildEpic && epicNameField != "" {
		fields[epicNameField] = summary
	}
	return fields
}

func deriveSuffix(parentSummary string) string {
	s := annotationRe.ReplaceAllString(parentSummary, "")
	return strings.ReplaceAll(s, suffixMarker, "")
}

// deepCopyFields copies a field document including nested maps and slices.
// Scalar values are shared, which is safe since they are immutable.
func deepCopyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return deepCopyFields(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
