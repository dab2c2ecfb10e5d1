// Package render turns a release snapshot into a text document through a
// Go template.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"github.com/andywolf/relnotes/internal/release"
	"github.com/andywolf/relnotes/internal/shortcut"
)

//go:embed default.md.tmpl
var defaultTemplate string

// Renderer renders release snapshots with a parsed template.
type Renderer struct {
	tmpl *template.Template
}

// funcMap exposes the grouping helpers templates need: stories by epic,
// stories outside any epic, and label membership.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"storiesForEpic": func(epicID int64, stories []shortcut.Story) []shortcut.Story {
			var out []shortcut.Story
			for _, s := range stories {
				if s.EpicID != nil && *s.EpicID == epicID {
					out = append(out, s)
				}
			}
			return out
		},
		"storiesWithoutEpic": func(stories []shortcut.Story) []shortcut.Story {
			var out []shortcut.Story
			for _, s := range stories {
				if s.EpicID == nil {
					out = append(out, s)
				}
			}
			return out
		},
		"hasLabel": func(story shortcut.Story, name string) bool {
			return story.HasLabel(name)
		},
		"shortHash": func(hash string) string {
			if len(hash) > 8 {
				return hash[:8]
			}
			return hash
		},
	}
}

// New creates a Renderer from template content.
func New(content string) (*Renderer, error) {
	tmpl, err := template.New("release").Funcs(funcMap()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewFromFile creates a Renderer from a template file, falling back to the
// embedded default when path is empty.
func NewFromFile(path string) (*Renderer, error) {
	if path == "" {
		return New(defaultTemplate)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return New(string(content))
}

// Render produces the release notes document for a snapshot.
func (r *Renderer) Render(snap *release.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, snap); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// RenderToFile writes the rendered document to path.
func (r *Renderer) RenderToFile(snap *release.Snapshot, path string) error {
	content, err := r.Render(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
