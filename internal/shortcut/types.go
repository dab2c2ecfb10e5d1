package shortcut

// Label is a tag attached to a story in Shortcut.
type Label struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Story is a Shortcut story as returned by the v3 API. Only the fields the
// release notes care about are mapped.
type Story struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description,omitempty"`
	StoryType   string  `json:"story_type" yaml:"story_type"`
	Labels      []Label `json:"labels" yaml:"labels,omitempty"`
	EpicID      *int64  `json:"epic_id" yaml:"epic_id,omitempty"`
	AppURL      string  `json:"app_url" yaml:"app_url"`
	Completed   bool    `json:"completed" yaml:"completed"`
	Started     bool    `json:"started" yaml:"started"`
}

// HasLabel reports whether the story carries a label with the given name.
// Label names are matched exactly, the API treats them as case-sensitive.
func (s *Story) HasLabel(name string) bool {
	for _, l := range s.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// HasAnyLabel reports whether the story carries at least one of the given
// label names.
func (s *Story) HasAnyLabel(names []string) bool {
	for _, name := range names {
		if s.HasLabel(name) {
			return true
		}
	}
	return false
}

// EpicStats aggregates story counts over all stories of an epic, not just
// the ones surfaced in a particular release.
type EpicStats struct {
	NumStoriesDone      int `json:"num_stories_done" yaml:"num_stories_done"`
	NumStoriesStarted   int `json:"num_stories_started" yaml:"num_stories_started"`
	NumStoriesUnstarted int `json:"num_stories_unstarted" yaml:"num_stories_unstarted"`
}

// Epic is a Shortcut epic as returned by the v3 API.
type Epic struct {
	ID     int64     `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	State  string    `json:"state" yaml:"state"`
	AppURL string    `json:"app_url" yaml:"app_url"`
	Stats  EpicStats `json:"stats" yaml:"stats"`
}
