package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepo builds a real repository in a temp directory, one file per
// commit, with a strictly increasing committer clock so ordering assertions
// are stable.
type testRepo struct {
	t     *testing.T
	dir   string
	repo  *git.Repository
	wt    *git.Worktree
	clock time.Time
	seq   int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	return &testRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *testRepo) commit(message string) plumbing.Hash {
	r.t.Helper()
	r.clock = r.clock.Add(time.Minute)
	r.seq++
	name := fmt.Sprintf("file-%d.txt", r.seq)
	if err := os.WriteFile(filepath.Join(r.dir, name), []byte(message), 0644); err != nil {
		r.t.Fatalf("write file: %v", err)
	}
	if _, err := r.wt.Add(name); err != nil {
		r.t.Fatalf("add %s: %v", name, err)
	}
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: r.clock}
	hash, err := r.wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("commit %q: %v", message, err)
	}
	return hash
}

func (r *testRepo) branch(name string) {
	r.t.Helper()
	err := r.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Force:  true,
	})
	if err != nil {
		r.t.Fatalf("create branch %s: %v", name, err)
	}
}

func (r *testRepo) checkout(name string) {
	r.t.Helper()
	err := r.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Force:  true,
	})
	if err != nil {
		r.t.Fatalf("checkout %s: %v", name, err)
	}
}

func (r *testRepo) open() *Repository {
	r.t.Helper()
	repo, err := Open(r.dir)
	if err != nil {
		r.t.Fatalf("open: %v", err)
	}
	return repo
}

func messages(commits []Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Message)
	}
	return out
}

func TestOpen_NotARepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error opening a plain directory")
	}
}

func TestResolveRef(t *testing.T) {
	tr := newTestRepo(t)
	hash := tr.commit("initial")
	repo := tr.open()

	got, err := repo.ResolveRef("master")
	if err != nil {
		t.Fatalf("resolve branch: %v", err)
	}
	if got != hash {
		t.Errorf("resolve master = %s, want %s", got, hash)
	}

	got, err = repo.ResolveRef(hash.String())
	if err != nil {
		t.Fatalf("resolve hash: %v", err)
	}
	if got != hash {
		t.Errorf("resolve hash = %s, want %s", got, hash)
	}

	if _, err := repo.ResolveRef("no-such-branch"); err == nil {
		t.Error("expected error resolving unknown ref")
	}
}

func TestUnreleasedCommits_LinearHistory(t *testing.T) {
	tr := newTestRepo(t)
	released := tr.commit("initial")
	tr.branch("release")
	tr.checkout("master")
	tr.commit("[sc-42] fix")
	tr.commit("oops typo")
	head := tr.commit("[sc-43] feat")

	repo := tr.open()
	got, err := repo.UnreleasedCommits("release", "master")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Head.Hash != head.String() {
		t.Errorf("head = %s, want %s", got.Head.Hash, head.String())
	}

	want := []string{"[sc-43] feat", "oops typo", "[sc-42] fix"}
	if !reflect.DeepEqual(messages(got.Commits), want) {
		t.Errorf("commits = %v, want %v", messages(got.Commits), want)
	}

	for _, c := range got.Commits {
		if c.Hash == released.String() {
			t.Errorf("commit %s is reachable from release and must not appear", c.Hash)
		}
	}
}

func TestUnreleasedCommits_DivergedRefs(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("shared base")
	tr.branch("release")
	hotfix := tr.commit("hotfix on release only")
	tr.checkout("master")
	next := tr.commit("[sc-7] new feature")

	repo := tr.open()
	got, err := repo.UnreleasedCommits("release", "master")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"[sc-7] new feature"}
	if !reflect.DeepEqual(messages(got.Commits), want) {
		t.Errorf("commits = %v, want %v", messages(got.Commits), want)
	}
	for _, c := range got.Commits {
		if c.Hash == hotfix.String() {
			t.Error("release-only commit leaked into the scan result")
		}
	}
	if got.Head.Hash != next.String() {
		t.Errorf("head = %s, want %s", got.Head.Hash, next.String())
	}
}

func TestUnreleasedCommits_SameRef(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("only commit")

	repo := tr.open()
	got, err := repo.UnreleasedCommits("master", "master")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Commits) != 0 {
		t.Errorf("expected no unreleased commits, got %v", messages(got.Commits))
	}
}

func TestUnreleasedCommits_UnresolvableRef(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("initial")

	repo := tr.open()
	if _, err := repo.UnreleasedCommits("release", "master"); err == nil {
		t.Error("expected error for unresolvable release ref")
	}
	if _, err := repo.UnreleasedCommits("master", "next"); err == nil {
		t.Error("expected error for unresolvable next ref")
	}
}

func TestUnreleasedCommits_Deterministic(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("initial")
	tr.branch("release")
	tr.checkout("master")
	for i := 0; i < 5; i++ {
		tr.commit(fmt.Sprintf("[sc-%d] change", 100+i))
	}

	repo := tr.open()
	first, err := repo.UnreleasedCommits("release", "master")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := repo.UnreleasedCommits("release", "master")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two scans of the same refs returned different results")
	}
}
