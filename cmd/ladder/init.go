package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ladderhq/ladder/internal/config"
	"github.com/ladderhq/ladder/internal/debug"
	"github.com/ladderhq/ladder/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a ladder configuration interactively",
	Long: `Creates .ladder/config.yaml in the current directory through a short
form: Jira connection, parent query, and template defaults. Values you
skip are written as commented placeholders that 'ladder config set'
reactivates later.

The API token is optional here. Leaving it out and exporting
JIRA_API_TOKEN instead keeps the secret off disk.

Use --defaults to write the commented scaffold without prompting, for
scripted setups.`,
	Run: runInit,
}

func init() {
	initCmd.Flags().Bool("defaults", false, "Write a commented scaffold without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) {
	dir := filepath.Join(".", config.Dir)
	path := filepath.Join(dir, config.FileName)

	if _, err := os.Stat(path); err == nil {
		FatalErrorWithHint(fmt.Sprintf("%s already exists", path),
			"Edit it directly or change single keys with 'ladder config set'")
	}

	var (
		url          string
		username     string
		token        string
		storeToken   bool
		jql          string
		templatePath string
		suffix       bool
	)

	useDefaults, _ := cmd.Flags().GetBool("defaults")
	if !useDefaults {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Jira URL").
					Description("Base URL of your Jira instance (required)").
					Placeholder("https://jira.example.com").
					Value(&url).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("the Jira URL is required")
						}
						return nil
					}),

				huh.NewInput().
					Title("Username").
					Description("Leave blank for token-only (bearer) auth").
					Placeholder("svc-ladder").
					Value(&username),

				huh.NewInput().
					Title("API token").
					Description("Leave blank to supply it via JIRA_API_TOKEN").
					EchoMode(huh.EchoModePassword).
					Value(&token),

				huh.NewConfirm().
					Title("Store the token in config.yaml?").
					Description("Written with 0600 permissions. Decline to keep it environment-only.").
					Affirmative("Store").
					Negative("Env only").
					Value(&storeToken),
			),

			huh.NewGroup(
				huh.NewInput().
					Title("Parent query").
					Description("Default JQL for 'ladder sync' (optional)").
					Placeholder("project = PLAT AND issuetype = Feature").
					Value(&jql),

				huh.NewInput().
					Title("Template path").
					Description("Default child template file (optional)").
					Placeholder("templates/epic.json").
					Value(&templatePath),

				huh.NewConfirm().
					Title("Derive child summaries from parent summaries?").
					Description("Turns on --suffix by default").
					Affirmative("Yes").
					Negative("No").
					Value(&suffix),
			),
		).WithTheme(huh.ThemeDracula())

		if err := form.Run(); err != nil {
			if err == huh.ErrUserAborted {
				fmt.Fprintln(os.Stderr, "Init cancelled.")
				os.Exit(0)
			}
			FatalErrorWithHint(fmt.Sprintf("form error: %v", err),
				"Use --defaults to write a commented scaffold without prompting")
		}
	}

	if !storeToken {
		token = ""
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		FatalError("failed to create %s: %v", dir, err)
	}
	if err := writeConfigScaffold(path, url, username, token, jql, templatePath, suffix); err != nil {
		FatalError("%v", err)
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{"path": path, "created": true})
		return
	}

	fmt.Printf("%s wrote %s\n", ui.RenderPassIcon(), path)
	if !debug.IsQuiet() {
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. ladder template validate <your-template>")
		fmt.Println("  2. ladder sync --dry-run")
	}
}

// writeConfigScaffold writes the config file with the given values filled
// in and everything else as commented placeholders. Commented keys are
// reactivated in place by 'ladder config set'.
func writeConfigScaffold(path, url, username, token, jql, templatePath string, suffix bool) error {
	content := fmt.Sprintf(`# ladder configuration
# Consulted by every ladder command run inside this directory tree.
# Credentials may also come from JIRA_URL / JIRA_USERNAME / JIRA_API_TOKEN;
# a set environment credential wins over this file.

%s
%s
%s
# jira.insecure_tls: false

# Link identifiers vary per Jira instance; the defaults match a classic
# company-managed setup. Check yours under Jira admin, Issue Linking.
# jira.epic_link_type_id: "10502"
# jira.story_parent_field: "customfield_11501"
# jira.epic_name_field: "customfield_11502"

%s
%s
sync.suffix: %v
`,
		yamlLine("jira.url", url, `"https://jira.example.com"`),
		yamlLine("jira.username", username, `""`),
		yamlLine("jira.token", token, `""`),
		yamlLine("sync.jql", jql, `"project = PLAT AND issuetype = Feature"`),
		yamlLine("sync.template", templatePath, `"templates/epic.json"`),
		suffix,
	)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// yamlLine renders key: "value", or a commented placeholder line when the
// value is empty.
func yamlLine(key, value, placeholder string) string {
	if value == "" {
		return fmt.Sprintf("# %s: %s", key, placeholder)
	}
	return fmt.Sprintf("%s: %q", key, value)
}
