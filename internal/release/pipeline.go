package release

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/andywolf/relnotes/internal/gitrepo"
	"github.com/andywolf/relnotes/internal/shortcut"
)

// Tracker resolves stories and epics by their public id. Implementations
// must return an error satisfying errors.Is(err, shortcut.ErrNotFound) for a
// missing record; any other error is treated as a fatal transport failure.
type Tracker interface {
	GetStory(ctx context.Context, id int64) (*shortcut.Story, error)
	GetEpic(ctx context.Context, id int64) (*shortcut.Epic, error)
}

// Pipeline runs the scan, parse, filter, resolve, and assemble stages for a
// set of repositories. Each run builds a fresh Snapshot; nothing is cached
// across runs.
type Pipeline struct {
	Repos   []Repo
	Filter  Filter
	Tracker Tracker
	Logger  *log.Logger
}

// parsed is the outcome of the parse stage: candidate story ids deduplicated
// across all repositories, and the commits whose messages carried no tag.
// A commit that parses is a candidate and never an unparsed commit, even if
// its id is filtered out later.
type parsed struct {
	candidates []int64
	unparsed   map[string][]gitrepo.Commit
}

// Run executes the full pipeline and returns the assembled snapshot. Any
// configuration or transport error aborts the run; no partial snapshot is
// ever returned.
func (p *Pipeline) Run(ctx context.Context, meta Meta) (*Snapshot, error) {
	scans, err := p.scanRepos(ctx)
	if err != nil {
		return nil, err
	}

	par := p.parseCommits(scans)

	stories, epics, err := p.resolveAndFilter(ctx, par.candidates)
	if err != nil {
		return nil, err
	}

	return p.assemble(meta, scans, par, stories, epics), nil
}

// scanRepos validates every repository's refs up front, then scans the
// repositories in parallel. Validating first means a bad ref in the last
// repository aborts the run before any work is done on the others.
func (p *Pipeline) scanRepos(ctx context.Context) (map[string]*gitrepo.Unreleased, error) {
	handles := make([]*gitrepo.Repository, len(p.Repos))
	for i, repo := range p.Repos {
		handle, err := gitrepo.Open(repo.Location)
		if err != nil {
			return nil, fmt.Errorf("repository %q: %w", repo.Name, err)
		}
		if _, err := handle.ResolveRef(repo.ReleaseRef); err != nil {
			return nil, fmt.Errorf("repository %q: %w", repo.Name, err)
		}
		if _, err := handle.ResolveRef(repo.NextRef); err != nil {
			return nil, fmt.Errorf("repository %q: %w", repo.Name, err)
		}
		handles[i] = handle
	}

	results := make([]*gitrepo.Unreleased, len(p.Repos))
	g, _ := errgroup.WithContext(ctx)
	for i, repo := range p.Repos {
		g.Go(func() error {
			unreleased, err := handles[i].UnreleasedCommits(repo.ReleaseRef, repo.NextRef)
			if err != nil {
				return fmt.Errorf("repository %q: %w", repo.Name, err)
			}
			results[i] = unreleased
			p.logf("[scan] %s: %d unreleased commits (%s..%s)",
				repo.Name, len(unreleased.Commits), repo.ReleaseRef, repo.NextRef)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scans := make(map[string]*gitrepo.Unreleased, len(p.Repos))
	for i, repo := range p.Repos {
		scans[repo.Name] = results[i]
	}
	return scans, nil
}

// parseCommits extracts story ids from commit messages and classifies the
// rest as unparsed. Candidate ids are merged across repositories into one
// sorted, deduplicated set so each story is fetched at most once.
func (p *Pipeline) parseCommits(scans map[string]*gitrepo.Unreleased) parsed {
	seen := make(map[int64]struct{})
	unparsed := make(map[string][]gitrepo.Commit)

	for _, repo := range p.Repos {
		scan := scans[repo.Name]
		for _, commit := range scan.Commits {
			if id, ok := shortcut.ParseStoryID(commit.Message); ok {
				seen[id] = struct{}{}
			} else {
				unparsed[repo.Name] = append(unparsed[repo.Name], commit)
			}
		}
	}

	candidates := make([]int64, 0, len(seen))
	for id := range seen {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	return parsed{candidates: candidates, unparsed: unparsed}
}

// resolveAndFilter fetches each candidate story, applies the label rules,
// then fetches the distinct epics of the surviving stories. A missing story
// or epic is dropped with a warning; any other tracker error is fatal.
func (p *Pipeline) resolveAndFilter(ctx context.Context, candidates []int64) ([]shortcut.Story, []shortcut.Epic, error) {
	stories := make([]shortcut.Story, 0, len(candidates))
	for _, id := range candidates {
		if p.Filter.ExcludesID(id) {
			p.logf("[release] story %d excluded by id", id)
			continue
		}
		story, err := p.Tracker.GetStory(ctx, id)
		if err != nil {
			if errors.Is(err, shortcut.ErrNotFound) {
				p.logf("[release] warning: story %d not found, dropping", id)
				continue
			}
			return nil, nil, err
		}
		if !p.Filter.KeepsStory(story) {
			p.logf("[release] story %d excluded by label", id)
			continue
		}
		stories = append(stories, *story)
	}

	epicSeen := make(map[int64]struct{})
	var epicIDs []int64
	for _, story := range stories {
		if story.EpicID == nil {
			continue
		}
		if _, ok := epicSeen[*story.EpicID]; ok {
			continue
		}
		epicSeen[*story.EpicID] = struct{}{}
		epicIDs = append(epicIDs, *story.EpicID)
	}
	sort.Slice(epicIDs, func(i, j int) bool { return epicIDs[i] < epicIDs[j] })

	epics := make([]shortcut.Epic, 0, len(epicIDs))
	for _, id := range epicIDs {
		epic, err := p.Tracker.GetEpic(ctx, id)
		if err != nil {
			if errors.Is(err, shortcut.ErrNotFound) {
				p.logf("[release] warning: epic %d not found, dropping", id)
				continue
			}
			return nil, nil, err
		}
		epics = append(epics, *epic)
	}

	return stories, epics, nil
}

// assemble merges the stage outputs into the final snapshot. All filtering
// already happened upstream; this is a pure merge.
func (p *Pipeline) assemble(meta Meta, scans map[string]*gitrepo.Unreleased, par parsed, stories []shortcut.Story, epics []shortcut.Epic) *Snapshot {
	heads := make(map[string]gitrepo.Commit, len(scans))
	for name, scan := range scans {
		heads[name] = scan.Head
	}

	unparsed := par.unparsed
	if p.Filter.DropUnparsed {
		unparsed = make(map[string][]gitrepo.Commit)
	}

	return &Snapshot{
		Name:            meta.Name,
		Version:         meta.Version,
		Description:     meta.Description,
		Stories:         stories,
		Epics:           epics,
		UnparsedCommits: unparsed,
		Heads:           heads,
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
