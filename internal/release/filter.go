package release

import "github.com/andywolf/relnotes/internal/shortcut"

// Filter holds the story-selection rules applied to parsed candidates.
// Rules are evaluated in priority order, short-circuiting at the first that
// applies: excluded id, excluded label, included label. Exclusion by label
// wins over inclusion when a story carries both.
type Filter struct {
	ExcludedIDs    []int64
	ExcludedLabels []string
	IncludedLabels []string
	DropUnparsed   bool
}

// ExcludesID reports whether the id is excluded outright. This rule needs no
// label data, so it runs before any tracker fetch.
func (f *Filter) ExcludesID(id int64) bool {
	for _, excluded := range f.ExcludedIDs {
		if id == excluded {
			return true
		}
	}
	return false
}

// KeepsStory applies the label rules to a resolved story. The id rule must
// already have run; label exclusion is checked before label inclusion.
func (f *Filter) KeepsStory(story *shortcut.Story) bool {
	if story.HasAnyLabel(f.ExcludedLabels) {
		return false
	}
	if len(f.IncludedLabels) > 0 && !story.HasAnyLabel(f.IncludedLabels) {
		return false
	}
	return true
}
