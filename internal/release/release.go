// Package release correlates unreleased git commits with Shortcut stories
// and epics and assembles the snapshot handed to rendering.
//
// Data flows through tagged stages: per-repository scan results are parsed
// into a deduplicated candidate id set, candidates are resolved against the
// tracker and filtered, and the survivors are merged into one Snapshot.
// There are no back-edges between stages.
package release

import (
	"github.com/andywolf/relnotes/internal/gitrepo"
	"github.com/andywolf/relnotes/internal/shortcut"
)

// Repo identifies one configured repository and the two refs to compare.
type Repo struct {
	Name       string
	Location   string
	ReleaseRef string
	NextRef    string
}

// Meta carries the optional run-level scalars attached to the snapshot.
type Meta struct {
	Name        string
	Version     string
	Description string
}

// Snapshot is the fully resolved, filtered, deduplicated release data. It is
// immutable once assembled: stories and epics contain no duplicate ids, and
// every resolvable epic referenced by a story appears in Epics.
type Snapshot struct {
	Name            string                      `yaml:"name,omitempty"`
	Version         string                      `yaml:"version,omitempty"`
	Description     string                      `yaml:"description,omitempty"`
	Stories         []shortcut.Story            `yaml:"stories"`
	Epics           []shortcut.Epic             `yaml:"epics"`
	UnparsedCommits map[string][]gitrepo.Commit `yaml:"unparsed_commits"`
	Heads           map[string]gitrepo.Commit   `yaml:"heads"`
}
