package jira

import (
	"reflect"
	"testing"

	"github.com/ladderhq/ladder/internal/hierarchy"
)

func TestToParentIssue(t *testing.T) {
	issue := Issue{
		ID:  "10001",
		Key: "FEAT-1",
		Fields: IssueFields{
			Summary: "ST: SIT - Feature A",
			Status:  &StatusField{ID: "3", Name: "In Progress"},
			Links: []IssueLink{
				{
					Type:        LinkTypeField{ID: "10502"},
					InwardIssue: &LinkedIssue{Key: "EPIC-9", Fields: LinkedIssueFields{Summary: "SIT: Feature A"}},
				},
				{
					Type:         LinkTypeField{ID: "10000", Name: "Blocks"},
					OutwardIssue: &LinkedIssue{Key: "PLAT-3", Fields: LinkedIssueFields{Summary: "platform upgrade"}},
				},
				{Type: LinkTypeField{ID: "10000"}}, // neither side populated
			},
		},
	}

	got := toParentIssue(issue)
	want := hierarchy.ParentIssue{
		Key:     "FEAT-1",
		Summary: "ST: SIT - Feature A",
		Status:  "In Progress",
		Links: []hierarchy.LinkRef{
			{Direction: hierarchy.DirectionInward, Key: "EPIC-9", Summary: "SIT: Feature A"},
			{Direction: hierarchy.DirectionOutward, Key: "PLAT-3", Summary: "platform upgrade"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toParentIssue() = %+v, want %+v", got, want)
	}
}

func TestToParentIssueNoStatusNoLinks(t *testing.T) {
	got := toParentIssue(Issue{Key: "FEAT-2", Fields: IssueFields{Summary: "bare"}})
	if got.Status != "" {
		t.Errorf("status = %q, want empty", got.Status)
	}
	if len(got.Links) != 0 {
		t.Errorf("links = %v, want none", got.Links)
	}
}
