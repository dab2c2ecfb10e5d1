// Package gitrepo computes the set of commits present on a next ref but
// absent from a release ref, using reachability over the commit graph.
package gitrepo

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is the slice of commit metadata the release pipeline needs.
type Commit struct {
	Hash    string `yaml:"hash"`
	Message string `yaml:"message"`
}

// Unreleased holds one repository's scan result: the commit the next ref
// points at and every commit reachable from it but not from the release ref.
type Unreleased struct {
	Head    Commit
	Commits []Commit
}

// Repository wraps an on-disk git repository.
type Repository struct {
	repo     *git.Repository
	location string
}

// Open opens an existing repository at the given path.
func Open(location string) (*Repository, error) {
	repo, err := git.PlainOpen(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", location, err)
	}
	return &Repository{repo: repo, location: location}, nil
}

// ResolveRef resolves a branch name, tag, or raw hash to a commit hash. An
// unresolvable ref is a configuration error for the repository.
func (r *Repository) ResolveRef(ref string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("cannot resolve ref %q in %s: %w", ref, r.location, err)
	}
	return *hash, nil
}

// UnreleasedCommits returns the commits reachable from nextRef but not from
// releaseRef. The two refs need not be linearly related; the result is a
// graph set-difference, not a linear history diff. Commits are ordered
// newest-first by committer time, with the hash as tie-breaker, so the same
// inputs always produce the same sequence.
func (r *Repository) UnreleasedCommits(releaseRef, nextRef string) (*Unreleased, error) {
	releaseHash, err := r.ResolveRef(releaseRef)
	if err != nil {
		return nil, err
	}
	nextHash, err := r.ResolveRef(nextRef)
	if err != nil {
		return nil, err
	}

	released, err := r.reachableFrom(releaseHash)
	if err != nil {
		return nil, err
	}

	head, err := r.repo.CommitObject(nextHash)
	if err != nil {
		return nil, fmt.Errorf("cannot read commit %s in %s: %w", nextHash, r.location, err)
	}

	commits, err := r.collectExcluding(nextHash, released)
	if err != nil {
		return nil, err
	}

	return &Unreleased{
		Head:    Commit{Hash: nextHash.String(), Message: head.Message},
		Commits: commits,
	}, nil
}

// reachableFrom walks the commit graph from start and returns every hash it
// can reach, start included. Commit history is acyclic, so a seen-set is the
// only termination guard needed.
func (r *Repository) reachableFrom(start plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	seen := make(map[plumbing.Hash]struct{})
	stack := []plumbing.Hash{start}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}

		commit, err := r.repo.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("cannot read commit %s in %s: %w", hash, r.location, err)
		}
		stack = append(stack, commit.ParentHashes...)
	}
	return seen, nil
}

// collectExcluding walks from start, stopping at any commit in the excluded
// set, and returns the visited commits newest-first.
func (r *Repository) collectExcluding(start plumbing.Hash, excluded map[plumbing.Hash]struct{}) ([]Commit, error) {
	seen := make(map[plumbing.Hash]struct{})
	var found []*object.Commit
	stack := []plumbing.Hash{start}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		if _, ok := excluded[hash]; ok {
			continue
		}

		commit, err := r.repo.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("cannot read commit %s in %s: %w", hash, r.location, err)
		}
		found = append(found, commit)
		stack = append(stack, commit.ParentHashes...)
	}

	sort.Slice(found, func(i, j int) bool {
		ti, tj := found[i].Committer.When, found[j].Committer.When
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return found[i].Hash.String() < found[j].Hash.String()
	})

	commits := make([]Commit, 0, len(found))
	for _, c := range found {
		commits = append(commits, Commit{Hash: c.Hash.String(), Message: c.Message})
	}
	return commits, nil
}
