package hierarchy

// Matcher decides whether an existing link already represents the child a
// template would create. The engine consults it once per parent before
// creating anything.
type Matcher interface {
	Name() string
	Match(link LinkRef, candidateSummary string) bool
}

// ExactSummaryMatcher matches on exact, case-sensitive summary equality
// with no trimming.
//
// This is a heuristic, not an identity check: it yields false negatives
// when the template text changes between runs, and false positives when
// an unrelated linked issue happens to carry the same summary. A stored
// source-key field would be a stronger scheme; swap the Matcher to adopt
// one without touching the engine.
type ExactSummaryMatcher struct{}

func (ExactSummaryMatcher) Name() string { return "exact-summary" }

func (ExactSummaryMatcher) Match(link LinkRef, candidateSummary string) bool {
	return link.Summary == candidateSummary
}

// HasEquivalentChild scans the parent's links in their original order and
// reports whether any matches the candidate summary. Short-circuits on the
// first match; a parent with no links never matches.
func HasEquivalentChild(parent ParentIssue, candidateSummary string, m Matcher) bool {
	for _, link := range parent.Links {
		if m.Match(link, candidateSummary) {
			return true
		}
	}
	return false
}
