package jira

import (
	"context"

	"github.com/ladderhq/ladder/internal/hierarchy"
)

// Repository adapts a Client to the synchronization engine's capability
// interface, flattening REST response shapes into engine snapshots.
type Repository struct {
	client *Client
}

// NewRepository wraps a configured client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

var _ hierarchy.Repository = (*Repository)(nil)

func (r *Repository) Query(ctx context.Context, jql string, fields []string, limit int) ([]hierarchy.ParentIssue, error) {
	issues, err := r.client.SearchIssues(ctx, jql, fields, limit)
	if err != nil {
		return nil, err
	}
	parents := make([]hierarchy.ParentIssue, len(issues))
	for i, issue := range issues {
		parents[i] = toParentIssue(issue)
	}
	return parents, nil
}

func (r *Repository) Create(ctx context.Context, fields map[string]interface{}) (hierarchy.CreatedIssue, error) {
	created, err := r.client.CreateIssue(ctx, fields)
	if err != nil {
		return hierarchy.CreatedIssue{}, err
	}
	return hierarchy.CreatedIssue{Key: created.Key}, nil
}

func (r *Repository) UpdateField(ctx context.Context, issueKey, fieldName string, value interface{}) error {
	return r.client.UpdateIssueFields(ctx, issueKey, map[string]interface{}{fieldName: value})
}

func (r *Repository) CreateLink(ctx context.Context, linkTypeID, inwardKey, outwardKey string) error {
	return r.client.CreateIssueLink(ctx, linkTypeID, inwardKey, outwardKey)
}

func toParentIssue(issue Issue) hierarchy.ParentIssue {
	p := hierarchy.ParentIssue{
		Key:     issue.Key,
		Summary: issue.Fields.Summary,
		Links:   make([]hierarchy.LinkRef, 0, len(issue.Fields.Links)),
	}
	if issue.Fields.Status != nil {
		p.Status = issue.Fields.Status.Name
	}
	for _, link := range issue.Fields.Links {
		if ref, ok := toLinkRef(link); ok {
			p.Links = append(p.Links, ref)
		}
	}
	return p
}

// toLinkRef picks whichever side of the link entry is populated. Entries
// with neither side set are dropped.
func toLinkRef(link IssueLink) (hierarchy.LinkRef, bool) {
	switch {
	case link.InwardIssue != nil:
		return hierarchy.LinkRef{
			Direction: hierarchy.DirectionInward,
			Key:       link.InwardIssue.Key,
			Summary:   link.InwardIssue.Fields.Summary,
		}, true
	case link.OutwardIssue != nil:
		return hierarchy.LinkRef{
			Direction: hierarchy.DirectionOutward,
			Key:       link.OutwardIssue.Key,
			Summary:   link.OutwardIssue.Fields.Summary,
		}, true
	}
	return hierarchy.LinkRef{}, false
}
