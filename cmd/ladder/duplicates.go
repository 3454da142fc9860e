package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/ladderhq/ladder/internal/config"
	"github.com/ladderhq/ladder/internal/hierarchy"
	"github.com/ladderhq/ladder/internal/ui"
)

var duplicatesCmd = &cobra.Command{
	Use:     "duplicates",
	Aliases: []string{"dups"},
	Short:   "Audit parent links for near-duplicate children",
	Long: `Finds parents whose links carry a summary close to, but not exactly
equal to, the summary the template would produce. Sync only skips exact
matches, so a renamed or hand-edited child looks new on the next run
and a sibling gets created next to it. This command surfaces those
near misses before they turn into duplicates.

Approaches:
  mechanical  Token-based text similarity (default, no API key needed)
  ai          LLM-based semantic comparison (requires ANTHROPIC_API_KEY)

The mechanical approach tokenizes both summaries and averages Jaccard
and cosine similarity. The AI approach pre-filters mechanically, then
asks Claude whether each remaining pair refers to the same child.

Examples:
  ladder duplicates
  ladder duplicates --threshold 0.4
  ladder duplicates --method ai --suffix
  ladder duplicates --json`,
	Run: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().String("parent", "", "Single parent issue key or browse URL")
	duplicatesCmd.Flags().String("jql", "", "Parent query (overrides sync.jql)")
	duplicatesCmd.Flags().String("jql-file", "", "File containing the parent query")
	duplicatesCmd.Flags().String("template", "", "Child template file (.json, .yaml, or .toml)")
	duplicatesCmd.Flags().Bool("suffix", false, "Derive child summaries from parent summaries")
	duplicatesCmd.Flags().Bool("prompt", false, "Prompt for missing connection values")
	duplicatesCmd.Flags().Bool("insecure", false, "Skip TLS certificate verification")
	duplicatesCmd.Flags().String("method", "mechanical", "Detection method: mechanical, ai")
	duplicatesCmd.Flags().Float64("threshold", 0.5, "Similarity threshold (0.0-1.0, lower = more results)")
	duplicatesCmd.Flags().IntP("limit", "n", 50, "Maximum number of pairs to show")
	duplicatesCmd.Flags().String("model", "claude-haiku-4-5-20251001", "AI model to use (only with --method ai)")
	rootCmd.AddCommand(duplicatesCmd)
}

// nearDuplicate is one suspicious parent link: the summary sync would
// create next to a link that probably already is that child.
type nearDuplicate struct {
	ParentKey   string  `json:"parent_key"`
	LinkKey     string  `json:"link_key"`
	LinkSummary string  `json:"link_summary"`
	Candidate   string  `json:"candidate_summary"`
	Similarity  float64 `json:"similarity"`
	Method      string  `json:"method"`
	Reason      string  `json:"reason,omitempty"`
}

func runDuplicates(cmd *cobra.Command, _ []string) {
	method, _ := cmd.Flags().GetString("method")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	limit, _ := cmd.Flags().GetInt("limit")
	model, _ := cmd.Flags().GetString("model")

	if method != "mechanical" && method != "ai" {
		FatalError("invalid method %q (use: mechanical, ai)", method)
	}
	if method == "ai" && os.Getenv("ANTHROPIC_API_KEY") == "" {
		FatalError("--method ai requires the ANTHROPIC_API_KEY environment variable")
	}

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

	repo, _, err := buildRepository(cmd, cfg)
	if err != nil {
		FatalErrorWithHint(err.Error(), "Run 'ladder init' to configure the Jira connection")
	}

	suffix, _ := cmd.Flags().GetBool("suffix")
	if !cmd.Flags().Changed("suffix") {
		suffix = cfg.GetBool("sync.suffix")
	}

	parents, err := repo.Query(rootCtx, jql, hierarchy.ParentSearchFields(), hierarchy.DefaultQueryLimit)
	if err != nil {
		if jsonOutput {
			outputJSONError(err, "query_failed")
		}
		FatalError("query parents: %v", err)
	}

	resolve := func(parent hierarchy.ParentIssue) string {
		fields := tpl.Resolve(parent.Summary, suffix, "")
		s, _ := fields["summary"].(string)
		return s
	}

	var pairs []nearDuplicate
	switch method {
	case "mechanical":
		pairs = findNearDuplicates(parents, resolve, threshold)
	case "ai":
		pairs = findAINearDuplicates(rootCtx, parents, resolve, threshold, model)
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{
			"pairs":     pairs,
			"count":     len(pairs),
			"method":    method,
			"threshold": threshold,
		})
		return
	}

	if len(pairs) == 0 {
		fmt.Printf("No near-duplicate links found across %d parents (threshold: %.0f%%)\n",
			len(parents), threshold*100)
		return
	}

	fmt.Printf("%s Found %d near-duplicate link(s) (threshold: %.0f%%):\n\n",
		ui.RenderWarnIcon(), len(pairs), threshold*100)

	for i, p := range pairs {
		fmt.Printf("%s Pair %d (%.0f%% similar) on %s:\n",
			ui.RenderAccent("━━"), i+1, p.Similarity*100, p.ParentKey)
		fmt.Printf("  would create: %s\n", ui.TruncateSimple(p.Candidate, 70))
		fmt.Printf("  linked child: %s  %s\n", ui.TruncateSimple(p.LinkSummary, 70), ui.RenderMuted(p.LinkKey))
		if p.Reason != "" {
			fmt.Printf("  %s %s\n", ui.RenderAccent("Reason:"), p.Reason)
		}
		fmt.Println()
	}
	fmt.Printf("Rename the linked child back, or adjust the template, before the next sync.\n")
}

// tokenize splits text into lowercase word tokens, removing punctuation.
func tokenize(text string) map[string]int {
	tokens := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	for _, w := range words {
		if len(w) > 1 { // Skip single chars
			tokens[w]++
		}
	}
	return tokens
}

// jaccardSimilarity computes the Jaccard similarity between two token sets.
func jaccardSimilarity(a, b map[string]int) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	union := 0

	for token, countA := range a {
		if countB, ok := b[token]; ok {
			if countA < countB {
				intersection += countA
			} else {
				intersection += countB
			}
			if countA > countB {
				union += countA
			} else {
				union += countB
			}
		} else {
			union += countA
		}
	}
	for token, countB := range b {
		if _, ok := a[token]; !ok {
			union += countB
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// cosineSimilarity computes the cosine similarity between two token vectors.
func cosineSimilarity(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	dotProduct := 0.0
	magA := 0.0
	magB := 0.0

	for token, countA := range a {
		fa := float64(countA)
		magA += fa * fa
		if countB, ok := b[token]; ok {
			dotProduct += fa * float64(countB)
		}
	}
	for _, countB := range b {
		fb := float64(countB)
		magB += fb * fb
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

// findNearDuplicates scores every parent link against that parent's
// resolved candidate summary. Exact matches are the sync matcher's job
// and are excluded here.
func findNearDuplicates(parents []hierarchy.ParentIssue, resolve func(hierarchy.ParentIssue) string, threshold float64) []nearDuplicate {
	var pairs []nearDuplicate
	for _, parent := range parents {
		candidate := resolve(parent)
		candTokens := tokenize(candidate)
		for _, link := range parent.Links {
			if link.Summary == candidate {
				continue
			}
			linkTokens := tokenize(link.Summary)

			// Average of Jaccard and cosine for better accuracy
			jaccard := jaccardSimilarity(candTokens, linkTokens)
			cosine := cosineSimilarity(candTokens, linkTokens)
			similarity := (jaccard + cosine) / 2

			if similarity >= threshold {
				pairs = append(pairs, nearDuplicate{
					ParentKey:   parent.Key,
					LinkKey:     link.Key,
					LinkSummary: link.Summary,
					Candidate:   candidate,
					Similarity:  similarity,
					Method:      "mechanical",
				})
			}
		}
	}
	return pairs
}

// findAINearDuplicates uses LLM-based semantic comparison. It pre-filters
// with mechanical similarity to keep API calls down.
func findAINearDuplicates(ctx context.Context, parents []hierarchy.ParentIssue, resolve func(hierarchy.ParentIssue) string, threshold float64, model string) []nearDuplicate {
	preFilterThreshold := threshold * 0.5 // Cast a wider net for pre-filtering
	if preFilterThreshold < 0.15 {
		preFilterThreshold = 0.15
	}
	candidates := findNearDuplicates(parents, resolve, preFilterThreshold)

	if len(candidates) == 0 {
		return nil
	}

	maxCandidates := 100
	if len(candidates) > maxCandidates {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Similarity > candidates[j].Similarity
		})
		candidates = candidates[:maxCandidates]
	}

	fmt.Fprintf(os.Stderr, "Analyzing %d candidate pairs with AI...\n", len(candidates))

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	var pairs []nearDuplicate

	batchSize := 10
	for i := 0; i < len(candidates); i += batchSize {
		end := i + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[i:end]

		results := analyzePairsWithAI(ctx, client, anthropic.Model(model), batch)
		for _, r := range results {
			if r.Similarity >= threshold {
				pairs = append(pairs, r)
			}
		}
	}

	return pairs
}

// analyzePairsWithAI sends a batch of candidate pairs to the LLM and asks
// whether each linked issue already is the child that sync would create.
func analyzePairsWithAI(ctx context.Context, client anthropic.Client, model anthropic.Model, candidates []nearDuplicate) []nearDuplicate {
	if len(candidates) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("You are auditing Jira issue links for a synchronization tool.\n")
	sb.WriteString("For each pair, the tool is about to create a child issue with the\n")
	sb.WriteString("candidate summary. Decide whether the already-linked issue is the\n")
	sb.WriteString("same child under a different or edited name.\n")
	sb.WriteString("Respond with a JSON array of objects, one per pair, with fields:\n")
	sb.WriteString("  - pair_index (int): 0-based index of the pair\n")
	sb.WriteString("  - is_duplicate (bool): true if the linked issue is the same child\n")
	sb.WriteString("  - confidence (float): 0.0-1.0 how confident you are\n")
	sb.WriteString("  - reason (string): brief explanation\n\n")
	sb.WriteString("Respond ONLY with the JSON array, no other text.\n\n")

	for i, c := range candidates {
		fmt.Fprintf(&sb, "--- Pair %d ---\n", i)
		fmt.Fprintf(&sb, "Parent [%s]\n", c.ParentKey)
		fmt.Fprintf(&sb, "Candidate summary: %s\n", c.Candidate)
		fmt.Fprintf(&sb, "Linked issue [%s]: %s\n", c.LinkKey, c.LinkSummary)
		sb.WriteString("\n")
	}

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(sb.String())),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: AI analysis failed: %v\n", err)
		// Fall back to mechanical scores
		return candidates
	}

	if len(message.Content) == 0 || message.Content[0].Type != "text" {
		fmt.Fprintf(os.Stderr, "Warning: unexpected AI response format\n")
		return candidates
	}

	responseText := message.Content[0].Text

	// Extract the JSON array even when wrapped in markdown fences
	jsonText := responseText
	if idx := strings.Index(jsonText, "["); idx >= 0 {
		jsonText = jsonText[idx:]
	}
	if idx := strings.LastIndex(jsonText, "]"); idx >= 0 {
		jsonText = jsonText[:idx+1]
	}

	var results []struct {
		PairIndex   int     `json:"pair_index"`
		IsDuplicate bool    `json:"is_duplicate"`
		Confidence  float64 `json:"confidence"`
		Reason      string  `json:"reason"`
	}

	if err := json.Unmarshal([]byte(jsonText), &results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to parse AI response: %v\n", err)
		return candidates
	}

	var pairs []nearDuplicate
	for _, r := range results {
		if r.PairIndex < 0 || r.PairIndex >= len(candidates) {
			continue
		}
		if r.IsDuplicate {
			c := candidates[r.PairIndex]
			c.Similarity = r.Confidence
			c.Method = "ai"
			c.Reason = r.Reason
			pairs = append(pairs, c)
		}
	}

	return pairs
}
