package hierarchy

import (
	"context"

	"github.com/ladderhq/ladder/internal/template"
)

// Linker establishes the parent-child relationship for a freshly created
// issue. The two hierarchy levels use different conventions and must stay
// distinct operations: Epic↔Feature is a typed link record, Story↔Epic is
// a plain field reference on the Story.
type Linker interface {
	Name() string
	Link(ctx context.Context, repo Repository, parentKey, childKey string) error
}

// EpicLinker links a created Epic under its SAFe Feature with a typed
// issue link: the new Epic is the inward party, the Feature the outward.
type EpicLinker struct {
	LinkTypeID string
}

func (l EpicLinker) Name() string { return "epic-link" }

func (l EpicLinker) Link(ctx context.Context, repo Repository, parentKey, childKey string) error {
	return repo.CreateLink(ctx, l.LinkTypeID, childKey, parentKey)
}

// StoryLinker links a created Story to its Epic by writing the parent key
// into the Story's Epic Link field. No link record is created.
type StoryLinker struct {
	ParentField string
}

func (l StoryLinker) Name() string { return "story-epic-field" }

func (l StoryLinker) Link(ctx context.Context, repo Repository, parentKey, childKey string) error {
	return repo.UpdateField(ctx, childKey, l.ParentField, parentKey)
}

// linkerFor selects the strategy for a template's child type, filling in
// instance defaults where the options leave identifiers empty.
func linkerFor(childType template.ChildType, opts RunOptions) Linker {
	switch childType {
	case template.ChildStory:
		field := opts.StoryParentField
		if field == "" {
			field = DefaultStoryParentField
		}
		return StoryLinker{ParentField: field}
	default:
		typeID := opts.EpicLinkTypeID
		if typeID == "" {
			typeID = DefaultEpicLinkTypeID
		}
		return EpicLinker{LinkTypeID: typeID}
	}
}
