package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ladderhq/ladder/internal/config"
	"github.com/ladderhq/ladder/internal/creds"
	"github.com/ladderhq/ladder/internal/debug"
	"github.com/ladderhq/ladder/internal/hierarchy"
	"github.com/ladderhq/ladder/internal/jira"
	"github.com/ladderhq/ladder/internal/telemetry"
	"github.com/ladderhq/ladder/internal/template"
	"github.com/ladderhq/ladder/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create and link child issues under queried parents",
	Long: `Runs one synchronization pass: queries parents with JQL, resolves a
child from the template for each, skips parents whose links already
carry an equivalent child, and creates plus links the rest.

Epic templates link the new Epic under its Feature with a typed issue
link; Story templates attach the new Story to its Epic through the epic
link field. Reruns are safe because duplicate detection scans each
parent's links before creating anything.

The query, template path, and connection details come from flags or
from .ladder/config.yaml (see 'ladder init').

Examples:
  ladder sync --jql 'project = PLAT AND issuetype = Feature' --template epic.json
  ladder sync --parent SIT-42 --template epic.json
  ladder sync --suffix --dry-run
  ladder sync --report out.jsonl --fail-fast`,
	Run: runSync,
}

func init() {
	syncCmd.Flags().String("parent", "", "Single parent issue key or browse URL")
	syncCmd.Flags().String("jql", "", "Parent query (overrides sync.jql)")
	syncCmd.Flags().String("jql-file", "", "File containing the parent query")
	syncCmd.Flags().String("template", "", "Child template file (.json, .yaml, or .toml)")
	syncCmd.Flags().Bool("suffix", false, "Derive child summaries from parent summaries")
	syncCmd.Flags().Bool("dry-run", false, "Report what would happen without creating anything")
	syncCmd.Flags().Bool("fail-fast", false, "Abort the batch on the first creation failure")
	syncCmd.Flags().Int("limit", 0, "Maximum parents to process (default 1000)")
	syncCmd.Flags().Bool("prompt", false, "Prompt for missing connection values")
	syncCmd.Flags().String("report", "", "Write per-parent outcomes to a JSONL file")
	syncCmd.Flags().Bool("insecure", false, "Skip TLS certificate verification")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		FatalError("%v", err)
	}

	jql, err := resolveQuery(cmd, cfg)
	if err != nil {
		FatalErrorWithHint(err.Error(), "Pass --jql or --jql-file, or set sync.jql with 'ladder config set'")
	}

	tpl, err := loadChildTemplate(cmd, cfg)
	if err != nil {
		FatalErrorWithHint(err.Error(), "Pass --template, or set sync.template with 'ladder config set'")
	}

	repo, client, err := buildRepository(cmd, cfg)
	if err != nil {
		FatalErrorWithHint(err.Error(), "Run 'ladder init' to configure the Jira connection")
	}

	suffix, _ := cmd.Flags().GetBool("suffix")
	if !cmd.Flags().Changed("suffix") {
		suffix = cfg.GetBool("sync.suffix")
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	failFast, _ := cmd.Flags().GetBool("fail-fast")
	limit, _ := cmd.Flags().GetInt("limit")

	eng := hierarchy.NewEngine(repo)
	if !jsonOutput {
		eng.OnMessage = func(msg string) {
			debug.PrintlnNormal(msg)
		}
		eng.OnWarning = func(msg string) {
			fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderWarnIcon(), msg)
		}
	}

	runCtx, endRun := telemetry.StartRun(rootCtx)
	res, err := eng.Run(runCtx, hierarchy.RunOptions{
		JQL:              jql,
		Template:         tpl,
		SuffixEnabled:    suffix,
		Limit:            limit,
		EpicLinkTypeID:   cfg.GetString("jira.epic_link_type_id"),
		StoryParentField: cfg.GetString("jira.story_parent_field"),
		EpicNameField:    cfg.GetString("jira.epic_name_field"),
		DryRun:           dryRun,
		FailFast:         failFast,
	})
	endRun(res, err)
	if err != nil {
		if jsonOutput {
			outputJSONError(err, "sync_failed")
		}
		FatalError("%v", err)
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeReport(path, res); err != nil {
			WarnError("failed to write report: %v", err)
		} else {
			debug.Logf("report written to %s\n", path)
		}
	}

	if jsonOutput {
		outputJSON(res)
	} else {
		printSyncSummary(res, client, dryRun)
	}
	if !res.Success {
		os.Exit(1)
	}
}

// resolveQuery returns the parent JQL from --parent, --jql, --jql-file,
// or config, in that order. The query is opaque to ladder and passed
// through to Jira verbatim; --parent builds a single-issue query from a
// key or a pasted browse URL.
func resolveQuery(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
		key := parent
		if strings.Contains(parent, "/") {
			if key = jira.ExtractIssueKey(parent); key == "" {
				return "", fmt.Errorf("cannot extract an issue key from %q", parent)
			}
		}
		return fmt.Sprintf("key = %s", key), nil
	}
	if jql, _ := cmd.Flags().GetString("jql"); jql != "" {
		return jql, nil
	}
	if path, _ := cmd.Flags().GetString("jql-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read jql file: %w", err)
		}
		jql := strings.TrimSpace(string(data))
		if jql == "" {
			return "", fmt.Errorf("jql file %s is empty", path)
		}
		return jql, nil
	}
	if jql := cfg.GetString("sync.jql"); jql != "" {
		return jql, nil
	}
	return "", fmt.Errorf("no parent query configured")
}

// loadChildTemplate loads the child template named by --template or
// config sync.template.
func loadChildTemplate(cmd *cobra.Command, cfg *config.Config) (*template.Template, error) {
	path, _ := cmd.Flags().GetString("template")
	if path == "" {
		path = cfg.GetString("sync.template")
	}
	if path == "" {
		return nil, fmt.Errorf("no child template configured")
	}
	return template.Load(path)
}

// buildRepository assembles the Jira repository from config and flags.
// With --prompt, missing connection values are read from the terminal
// instead of failing.
func buildRepository(cmd *cobra.Command, cfg *config.Config) (hierarchy.Repository, *jira.Client, error) {
	static := creds.StaticSource{
		URL:      cfg.GetString("jira.url"),
		Username: cfg.GetString("jira.username"),
		Token:    cfg.GetString("jira.token"),
	}
	var source creds.Source = static
	if prompt, _ := cmd.Flags().GetBool("prompt"); prompt {
		source = creds.NewPromptSource(static)
	}

	url, err := source.BaseURL()
	if err != nil {
		return nil, nil, err
	}
	username, token, err := source.Credentials()
	if err != nil {
		return nil, nil, err
	}

	client := jira.NewClient(url, username, token)
	if insecure, _ := cmd.Flags().GetBool("insecure"); insecure || cfg.GetBool("jira.insecure_tls") {
		client.AllowInsecureTLS()
		WarnError("TLS certificate verification is disabled")
	}
	return telemetry.WrapRepository(jira.NewRepository(client)), client, nil
}

func printSyncSummary(res *hierarchy.Result, client *jira.Client, dryRun bool) {
	if !debug.IsQuiet() {
		fmt.Println()
		for _, o := range res.Outcomes {
			switch o.Kind {
			case hierarchy.OutcomeCreated:
				line := fmt.Sprintf("%s  %s", o.ChildKey, ui.TruncateSimple(o.ChildSummary, 60))
				if client != nil {
					line += "  " + ui.RenderMuted(client.BrowseURL(o.ChildKey))
				}
				fmt.Printf("  %s %s\n", ui.RenderPassIcon(), line)
			case hierarchy.OutcomeSkippedDuplicate:
				fmt.Printf("  %s %s  %s\n", ui.RenderSkipIcon(), o.ParentKey,
					ui.RenderMuted("child already present"))
			case hierarchy.OutcomeFailedLink:
				fmt.Printf("  %s %s created under %s but unlinked: %s\n",
					ui.RenderWarnIcon(), o.ChildKey, o.ParentKey, o.Err)
			case hierarchy.OutcomeFailedCreate:
				fmt.Printf("  %s %s: create failed: %s\n", ui.RenderFailIcon(), o.ParentKey, o.Err)
			case hierarchy.OutcomeWouldCreate:
				fmt.Printf("  %s would create %q under %s\n",
					ui.RenderInfoIcon(), ui.TruncateSimple(o.ChildSummary, 60), o.ParentKey)
			}
		}
		fmt.Println(ui.RenderSeparator())
	}

	stats := res.Stats
	summary := fmt.Sprintf("%d parents: %d created, %d skipped", stats.Parents, stats.Created, stats.Skipped)
	if dryRun {
		summary = fmt.Sprintf("%d parents: %d would be created, %d skipped",
			stats.Parents, stats.WouldCreate, stats.Skipped)
	}
	if stats.CreateFailures > 0 {
		summary += fmt.Sprintf(", %d create failures", stats.CreateFailures)
	}
	if stats.LinkFailures > 0 {
		summary += fmt.Sprintf(", %d link failures", stats.LinkFailures)
	}
	if res.Aborted {
		summary += " (aborted)"
	}

	if res.Success {
		if !debug.IsQuiet() {
			fmt.Printf("%s %s\n", ui.RenderPassIcon(), summary)
		}
	} else {
		fmt.Printf("%s %s\n", ui.RenderFailIcon(), summary)
	}
}
