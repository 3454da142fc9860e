package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ladderhq/ladder/internal/config"
	"github.com/ladderhq/ladder/internal/template"
)

func newResolutionCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("parent", "", "")
	cmd.Flags().String("jql", "", "")
	cmd.Flags().String("jql-file", "", "")
	cmd.Flags().String("template", "", "")
	return cmd
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func loadConfigYAML(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile(writeTempFile(t, "config.yaml", yaml))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func emptyTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile("")
	if err != nil {
		t.Fatalf("load empty config: %v", err)
	}
	return cfg
}

func TestResolveQueryPrecedence(t *testing.T) {
	cfg := loadConfigYAML(t, "sync.jql: project = CFG\n")

	cmd := newResolutionCmd(t)
	if err := cmd.Flags().Set("jql", "project = FLAG"); err != nil {
		t.Fatal(err)
	}
	jqlFile := writeTempFile(t, "query.jql", "project = FILE\n")
	if err := cmd.Flags().Set("jql-file", jqlFile); err != nil {
		t.Fatal(err)
	}

	jql, err := resolveQuery(cmd, cfg)
	if err != nil {
		t.Fatalf("resolveQuery: %v", err)
	}
	if jql != "project = FLAG" {
		t.Errorf("expected the --jql flag to win, got %q", jql)
	}
}

func TestResolveQueryFromParent(t *testing.T) {
	tests := []struct {
		name    string
		parent  string
		want    string
		wantErr bool
	}{
		{"bare key", "SIT-42", "key = SIT-42", false},
		{"browse URL", "https://jira.example.com/browse/SIT-42", "key = SIT-42", false},
		{"non-browse URL", "https://jira.example.com/issues/SIT-42", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newResolutionCmd(t)
			if err := cmd.Flags().Set("parent", tt.parent); err != nil {
				t.Fatal(err)
			}
			// --parent outranks --jql.
			if err := cmd.Flags().Set("jql", "project = FLAG"); err != nil {
				t.Fatal(err)
			}

			jql, err := resolveQuery(cmd, emptyTestConfig(t))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", jql)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveQuery: %v", err)
			}
			if jql != tt.want {
				t.Errorf("resolveQuery = %q, want %q", jql, tt.want)
			}
		})
	}
}

func TestResolveQueryFromFile(t *testing.T) {
	cfg := loadConfigYAML(t, "sync.jql: project = CFG\n")

	cmd := newResolutionCmd(t)
	jqlFile := writeTempFile(t, "query.jql", "  project = FILE AND issuetype = Feature\n\n")
	if err := cmd.Flags().Set("jql-file", jqlFile); err != nil {
		t.Fatal(err)
	}

	jql, err := resolveQuery(cmd, cfg)
	if err != nil {
		t.Fatalf("resolveQuery: %v", err)
	}
	if jql != "project = FILE AND issuetype = Feature" {
		t.Errorf("expected trimmed file query, got %q", jql)
	}
}

func TestResolveQueryEmptyFileFails(t *testing.T) {
	cmd := newResolutionCmd(t)
	jqlFile := writeTempFile(t, "query.jql", "\n  \n")
	if err := cmd.Flags().Set("jql-file", jqlFile); err != nil {
		t.Fatal(err)
	}

	_, err := resolveQuery(cmd, emptyTestConfig(t))
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty-file error, got %v", err)
	}
}

func TestResolveQueryFromConfig(t *testing.T) {
	cfg := loadConfigYAML(t, "sync.jql: project = CFG AND issuetype = Feature\n")

	jql, err := resolveQuery(newResolutionCmd(t), cfg)
	if err != nil {
		t.Fatalf("resolveQuery: %v", err)
	}
	if jql != "project = CFG AND issuetype = Feature" {
		t.Errorf("expected config query, got %q", jql)
	}
}

func TestResolveQueryMissing(t *testing.T) {
	_, err := resolveQuery(newResolutionCmd(t), emptyTestConfig(t))
	if err == nil || !strings.Contains(err.Error(), "no parent query") {
		t.Errorf("expected missing-query error, got %v", err)
	}
}

func TestLoadChildTemplateFromFlag(t *testing.T) {
	path := writeTempFile(t, "epic.json",
		`{"summary": "SIT:", "issuetype": {"name": "Epic"}, "project": {"key": "SIT"}}`)

	cmd := newResolutionCmd(t)
	if err := cmd.Flags().Set("template", path); err != nil {
		t.Fatal(err)
	}

	tpl, err := loadChildTemplate(cmd, emptyTestConfig(t))
	if err != nil {
		t.Fatalf("loadChildTemplate: %v", err)
	}
	if tpl.ChildType() != template.ChildEpic {
		t.Errorf("expected an Epic template, got %s", tpl.ChildType())
	}
}

func TestLoadChildTemplateFromConfig(t *testing.T) {
	path := writeTempFile(t, "story.yaml", "summary: Review tasks\nissuetype:\n  name: Story\n")
	cfg := loadConfigYAML(t, "sync.template: "+path+"\n")

	tpl, err := loadChildTemplate(newResolutionCmd(t), cfg)
	if err != nil {
		t.Fatalf("loadChildTemplate: %v", err)
	}
	if tpl.ChildType() != template.ChildStory {
		t.Errorf("expected a Story template, got %s", tpl.ChildType())
	}
}

func TestLoadChildTemplateMissing(t *testing.T) {
	_, err := loadChildTemplate(newResolutionCmd(t), emptyTestConfig(t))
	if err == nil || !strings.Contains(err.Error(), "no child template") {
		t.Errorf("expected missing-template error, got %v", err)
	}
}
