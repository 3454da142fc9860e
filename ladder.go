// Package ladder exposes a minimal public API for embedding the issue
// hierarchy synchronizer in other Go programs.
//
// Most automation should drive the ladder CLI instead. This package
// exports only the types needed to run a sync programmatically, with a
// custom repository or duplicate matcher where the defaults don't fit.
package ladder

import (
	"github.com/ladderhq/ladder/internal/hierarchy"
	"github.com/ladderhq/ladder/internal/jira"
	"github.com/ladderhq/ladder/internal/template"
)

// Core types for driving a synchronization run
type (
	Engine      = hierarchy.Engine
	RunOptions  = hierarchy.RunOptions
	Result      = hierarchy.Result
	Outcome     = hierarchy.Outcome
	OutcomeKind = hierarchy.OutcomeKind
	Stats       = hierarchy.Stats
	Template    = template.Template
)

// Types needed to implement a custom Repository or Matcher
type (
	Repository   = hierarchy.Repository
	Matcher      = hierarchy.Matcher
	ParentIssue  = hierarchy.ParentIssue
	CreatedIssue = hierarchy.CreatedIssue
	LinkRef      = hierarchy.LinkRef
)

// Outcome kinds recorded per processed parent
const (
	OutcomeCreated          = hierarchy.OutcomeCreated
	OutcomeSkippedDuplicate = hierarchy.OutcomeSkippedDuplicate
	OutcomeFailedCreate     = hierarchy.OutcomeFailedCreate
	OutcomeFailedLink       = hierarchy.OutcomeFailedLink
	OutcomeWouldCreate      = hierarchy.OutcomeWouldCreate
)

// NewEngine returns a synchronization engine with the default
// exact-summary duplicate matcher.
func NewEngine(repo Repository) *Engine {
	return hierarchy.NewEngine(repo)
}

// NewJiraRepository builds the production Jira-backed repository. An
// empty username selects bearer token auth.
func NewJiraRepository(url, username, apiToken string) Repository {
	return jira.NewRepository(jira.NewClient(url, username, apiToken))
}

// LoadTemplate reads and validates a child template file (.json, .yaml,
// or .toml).
func LoadTemplate(path string) (*Template, error) {
	return template.Load(path)
}
