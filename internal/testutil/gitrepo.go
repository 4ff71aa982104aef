// Package testutil provides test utilities and helpers for releasenotes tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo is a throwaway repository built with go-git for tests.
// The default branch is "main" and every commit gets a deterministic timestamp.
type GitRepo struct {
	t        testing.TB
	Dir      string
	Repo     *git.Repository
	Worktree *git.Worktree
	clock    time.Time
	files    int
}

// NewGitRepo initializes an empty repository in a temp directory.
func NewGitRepo(t testing.TB) *GitRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("initializing repository: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("getting worktree: %v", err)
	}

	return &GitRepo{
		t:        t,
		Dir:      dir,
		Repo:     repo,
		Worktree: worktree,
		clock:    time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

// Commit writes a new file and commits it on the current branch.
// Returns the new commit hash.
func (g *GitRepo) Commit(message string) string {
	g.t.Helper()
	return g.commit(message, nil)
}

// Merge creates a merge commit on the current branch whose second parent is other.
func (g *GitRepo) Merge(message, other string) string {
	g.t.Helper()
	return g.commit(message, []plumbing.Hash{plumbing.NewHash(g.Head()), plumbing.NewHash(other)})
}

func (g *GitRepo) commit(message string, parents []plumbing.Hash) string {
	g.t.Helper()

	g.files++
	name := fmt.Sprintf("file-%03d.txt", g.files)
	if err := os.WriteFile(filepath.Join(g.Dir, name), []byte(message+"\n"), 0o644); err != nil {
		g.t.Fatalf("writing %s: %v", name, err)
	}
	if _, err := g.Worktree.Add(name); err != nil {
		g.t.Fatalf("staging %s: %v", name, err)
	}

	g.clock = g.clock.Add(time.Minute)
	sig := &object.Signature{Name: "Test", Email: "test@test.com", When: g.clock}
	hash, err := g.Worktree.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	if err != nil {
		g.t.Fatalf("committing %q: %v", message, err)
	}
	return hash.String()
}

// Branch creates a branch at the current HEAD without checking it out.
func (g *GitRepo) Branch(name string) {
	g.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(g.Head()))
	if err := g.Repo.Storer.SetReference(ref); err != nil {
		g.t.Fatalf("creating branch %s: %v", name, err)
	}
}

// RemoteBranch creates a remote-tracking reference such as origin/name at hash.
func (g *GitRepo) RemoteBranch(remote, name, hash string) {
	g.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remote, name), plumbing.NewHash(hash))
	if err := g.Repo.Storer.SetReference(ref); err != nil {
		g.t.Fatalf("creating remote branch %s/%s: %v", remote, name, err)
	}
}

// Checkout switches to an existing branch, discarding local changes.
func (g *GitRepo) Checkout(name string) {
	g.t.Helper()

	err := g.Worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Force:  true,
	})
	if err != nil {
		g.t.Fatalf("checking out %s: %v", name, err)
	}
}

// Tag creates a lightweight tag.
func (g *GitRepo) Tag(name, hash string) {
	g.t.Helper()

	if _, err := g.Repo.CreateTag(name, plumbing.NewHash(hash), nil); err != nil {
		g.t.Fatalf("creating tag %s: %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag object pointing at hash.
func (g *GitRepo) AnnotatedTag(name, hash, message string) {
	g.t.Helper()

	_, err := g.Repo.CreateTag(name, plumbing.NewHash(hash), &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Test", Email: "test@test.com", When: g.clock},
		Message: message,
	})
	if err != nil {
		g.t.Fatalf("creating annotated tag %s: %v", name, err)
	}
}

// Head returns the hash HEAD points at.
func (g *GitRepo) Head() string {
	g.t.Helper()

	head, err := g.Repo.Head()
	if err != nil {
		g.t.Fatalf("reading HEAD: %v", err)
	}
	return head.Hash().String()
}

// CurrentBranch returns the short name of the checked out branch.
func (g *GitRepo) CurrentBranch() string {
	g.t.Helper()

	head, err := g.Repo.Head()
	if err != nil {
		g.t.Fatalf("reading HEAD: %v", err)
	}
	return head.Name().Short()
}

// Linear creates n commits named "C1".."Cn" on the current branch and returns their hashes.
func (g *GitRepo) Linear(n int) []string {
	g.t.Helper()

	hashes := make([]string, n)
	for i := range hashes {
		hashes[i] = g.Commit(fmt.Sprintf("C%d", i+1))
	}
	return hashes
}
