// Package hierarchy implements the idempotent issue-synchronization engine.
//
// Given parent issues matched by a query, the engine creates one child per
// parent (Epic under Feature, Story under Epic), links it, and skips
// parents that already carry an equivalent child among their links.
// Repository access goes through a capability interface; the engine never
// talks to a tracker directly.
package hierarchy

import "context"

// Direction of an issue link relative to the parent it was fetched on.
type Direction string

const (
	DirectionInward  Direction = "inward"
	DirectionOutward Direction = "outward"
)

// Defaults for the hierarchy link configuration. The identifiers are
// opaque, instance-specific values; override them in config when the
// target instance differs.
const (
	// DefaultEpicLinkTypeID is the typed link connecting an Epic to its
	// SAFe Feature.
	DefaultEpicLinkTypeID = "10502"
	// DefaultStoryParentField is the Epic Link field set on a Story.
	DefaultStoryParentField = "customfield_11501"
	// DefaultEpicNameField is the Epic Name field populated on created
	// Epics in suffix mode.
	DefaultEpicNameField = "customfield_11502"
)

// DefaultQueryLimit bounds how many parents a single run processes.
const DefaultQueryLimit = 1000

// LinkRef is one edge already present on a parent at fetch time. It
// carries the far issue's key and summary as embedded in the link record.
type LinkRef struct {
	Direction Direction
	Key       string
	Summary   string
}

// ParentIssue is an immutable snapshot of a pre-existing issue under which
// a child may be created. Fetched once per run; later repository writes do
// not refresh it.
type ParentIssue struct {
	Key     string
	Summary string
	Status  string
	Links   []LinkRef
}

// CreatedIssue identifies a child issue returned by a successful creation.
type CreatedIssue struct {
	Key string
}

// Repository is the capability interface the engine consumes. Implemented
// by the Jira client adapter in production and by fakes in tests.
type Repository interface {
	// Query executes an opaque query and returns matching parents with
	// their existing links. At most limit results are returned.
	Query(ctx context.Context, jql string, fields []string, limit int) ([]ParentIssue, error)
	// Create creates an issue from a concrete field set.
	Create(ctx context.Context, fields map[string]interface{}) (CreatedIssue, error)
	// UpdateField sets a single field on an existing issue.
	UpdateField(ctx context.Context, issueKey, fieldName string, value interface{}) error
	// CreateLink records a typed, directional link between two issues.
	CreateLink(ctx context.Context, linkTypeID, inwardKey, outwardKey string) error
}

// ParentSearchFields is the field set requested for parents. issuelinks is
// what duplicate detection runs against.
func ParentSearchFields() []string {
	return []string{"issuetype", "summary", "status", "issuekey", "project", "issuelinks"}
}

// OutcomeKind classifies the per-parent result of one engine iteration.
type OutcomeKind string

const (
	// OutcomeCreated: child created and linked.
	OutcomeCreated OutcomeKind = "created"
	// OutcomeSkippedDuplicate: an equivalent child already existed.
	OutcomeSkippedDuplicate OutcomeKind = "skipped_duplicate"
	// OutcomeFailedCreate: the repository rejected or failed the creation.
	OutcomeFailedCreate OutcomeKind = "failed_create"
	// OutcomeFailedLink: child created but linking failed. The child
	// exists unlinked; this still counts toward the created total.
	OutcomeFailedLink OutcomeKind = "failed_link"
	// OutcomeWouldCreate: dry run in place of a creation.
	OutcomeWouldCreate OutcomeKind = "would_create"
)

// Outcome is the per-parent result record. Exactly one is emitted for
// every parent processed; parents left unprocessed by a fail-fast abort
// get none.
type Outcome struct {
	ParentKey     string      `json:"parent_key"`
	ParentSummary string      `json:"parent_summary"`
	ChildKey      string      `json:"child_key,omitempty"`
	ChildSummary  string      `json:"child_summary,omitempty"`
	Kind          OutcomeKind `json:"kind"`
	Err           string      `json:"error,omitempty"`
}

// Stats aggregates outcome counts for one run.
type Stats struct {
	Parents        int `json:"parents"`
	Created        int `json:"created"`
	Skipped        int `json:"skipped"`
	CreateFailures int `json:"create_failures"`
	LinkFailures   int `json:"link_failures"`
	WouldCreate    int `json:"would_create,omitempty"`
}

// Result is the aggregate of one engine run.
type Result struct {
	Success  bool      `json:"success"`
	Aborted  bool      `json:"aborted,omitempty"`
	Stats    Stats     `json:"stats"`
	Outcomes []Outcome `json:"outcomes"`
	Warnings []string  `json:"warnings,omitempty"`
}
