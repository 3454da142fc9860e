package hierarchy

import (
	"context"
	"fmt"

	"github.com/ladderhq/ladder/internal/debug"
	"github.com/ladderhq/ladder/internal/template"
)

// Engine drives one synchronization run: query parents, resolve the child
// field set per parent, skip parents that already have an equivalent
// child, create and link the rest. Parents are processed sequentially in
// query order.
type Engine struct {
	Repo    Repository
	Matcher Matcher

	// OnMessage receives one progress line per parent. OnWarning receives
	// skip and failure notices as they happen. Both are optional.
	OnMessage func(string)
	OnWarning func(string)
}

// NewEngine returns an engine with the default duplicate matcher.
func NewEngine(repo Repository) *Engine {
	return &Engine{Repo: repo, Matcher: ExactSummaryMatcher{}}
}

// RunOptions configures a single Run. Zero values select instance
// defaults where one exists.
type RunOptions struct {
	// JQL is the opaque parent query, passed through verbatim.
	JQL string
	// Template produces the child field set for each parent.
	Template *template.Template
	// SuffixEnabled derives per-parent child summaries from the parent
	// summary instead of reusing the template summary as-is.
	SuffixEnabled bool
	// Limit bounds the parent query. Zero or negative means
	// DefaultQueryLimit.
	Limit int

	// EpicLinkTypeID, StoryParentField, and EpicNameField override the
	// instance defaults when the target Jira uses different identifiers.
	EpicLinkTypeID   string
	StoryParentField string
	EpicNameField    string

	// DryRun reports what would be created without writing anything.
	DryRun bool
	// FailFast aborts the run on the first creation failure instead of
	// continuing with the remaining parents.
	FailFast bool
}

// Run executes one synchronization pass. A query failure is fatal and
// returns an error; per-parent failures are recorded in the Result and do
// not stop the run unless FailFast is set.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if e.Repo == nil {
		return nil, fmt.Errorf("engine has no repository")
	}
	if opts.Template == nil {
		return nil, fmt.Errorf("no template configured")
	}
	if opts.JQL == "" {
		return nil, fmt.Errorf("no parent query configured")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	parents, err := e.Repo.Query(ctx, opts.JQL, ParentSearchFields(), limit)
	if err != nil {
		return nil, fmt.Errorf("query parents: %w", err)
	}

	epicNameField := opts.EpicNameField
	if epicNameField == "" {
		epicNameField = DefaultEpicNameField
	}
	linker := linkerFor(opts.Template.ChildType(), opts)
	matcher := e.Matcher
	if matcher == nil {
		matcher = ExactSummaryMatcher{}
	}

	debug.Logf("sync run: %d parents, child=%s, linker=%s, matcher=%s, dry_run=%v\n",
		len(parents), opts.Template.ChildType(), linker.Name(), matcher.Name(), opts.DryRun)

	res := &Result{
		Stats:    Stats{Parents: len(parents)},
		Outcomes: make([]Outcome, 0, len(parents)),
	}

	for i, parent := range parents {
		fields := opts.Template.Resolve(parent.Summary, opts.SuffixEnabled, epicNameField)
		candidate, _ := fields["summary"].(string)

		e.message(fmt.Sprintf("%d: %s - %s", i+1, parent.Key, parent.Summary))

		if HasEquivalentChild(parent, candidate, matcher) {
			e.warnf(res, "%s: child %q already present, skipping", parent.Key, candidate)
			res.Outcomes = append(res.Outcomes, Outcome{
				ParentKey:     parent.Key,
				ParentSummary: parent.Summary,
				ChildSummary:  candidate,
				Kind:          OutcomeSkippedDuplicate,
			})
			res.Stats.Skipped++
			continue
		}

		if opts.DryRun {
			res.Outcomes = append(res.Outcomes, Outcome{
				ParentKey:     parent.Key,
				ParentSummary: parent.Summary,
				ChildSummary:  candidate,
				Kind:          OutcomeWouldCreate,
			})
			res.Stats.WouldCreate++
			continue
		}

		created, err := e.Repo.Create(ctx, fields)
		if err != nil {
			e.warnf(res, "%s: create failed: %v", parent.Key, err)
			res.Outcomes = append(res.Outcomes, Outcome{
				ParentKey:     parent.Key,
				ParentSummary: parent.Summary,
				ChildSummary:  candidate,
				Kind:          OutcomeFailedCreate,
				Err:           err.Error(),
			})
			res.Stats.CreateFailures++
			if opts.FailFast {
				res.Aborted = true
				break
			}
			continue
		}

		if err := linker.Link(ctx, e.Repo, parent.Key, created.Key); err != nil {
			// The child exists but is not attached. Duplicate detection
			// scans the parent's links, so a rerun will not see it and
			// will create another.
			e.warnf(res, "%s: created %s but linking failed: %v", parent.Key, created.Key, err)
			res.Outcomes = append(res.Outcomes, Outcome{
				ParentKey:     parent.Key,
				ParentSummary: parent.Summary,
				ChildKey:      created.Key,
				ChildSummary:  candidate,
				Kind:          OutcomeFailedLink,
				Err:           err.Error(),
			})
			res.Stats.Created++
			res.Stats.LinkFailures++
			continue
		}

		res.Outcomes = append(res.Outcomes, Outcome{
			ParentKey:     parent.Key,
			ParentSummary: parent.Summary,
			ChildKey:      created.Key,
			ChildSummary:  candidate,
			Kind:          OutcomeCreated,
		})
		res.Stats.Created++
	}

	res.Success = res.Stats.CreateFailures == 0 && res.Stats.LinkFailures == 0
	return res, nil
}

func (e *Engine) message(msg string) {
	if e.OnMessage != nil {
		e.OnMessage(msg)
	}
}

func (e *Engine) warnf(res *Result, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	res.Warnings = append(res.Warnings, msg)
	if e.OnWarning != nil {
		e.OnWarning(msg)
	}
}
