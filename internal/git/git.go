// Package git provides repository access for releasenotes: branch and tag listing,
// revision resolution, commit history loading and scoped branch checkout.
// It uses the go-git library exclusively, so no git CLI installation is required.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps an opened go-git repository.
type Repository struct {
	repo   *git.Repository
	root   string
	logger *slog.Logger
}

// Open opens the git repository at path. It uses go-git's PlainOpenWithOptions
// with DetectDotGit enabled to traverse up the directory tree to find the
// repository root. If path is empty, the current working directory is used.
func Open(path string, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "git")

	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logger.Debug("opening repository", "path", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	logger.Debug("repository opened", "root", root)
	return &Repository{repo: repo, root: root, logger: logger}, nil
}

// Root returns the absolute path of the repository working tree.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the name of the checked out branch.
// Returns empty string if in detached HEAD state.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		r.logger.Debug("detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// BranchInfo contains metadata about a git branch
type BranchInfo struct {
	Name     string
	IsRemote bool
	Remote   string // Remote name (e.g., "origin") if IsRemote is true
}

// DisplayName returns the name a user types to select the branch:
// "main" for local branches, "origin/main" for remote-only ones.
func (b BranchInfo) DisplayName() string {
	if b.IsRemote {
		return b.Remote + "/" + b.Name
	}
	return b.Name
}

// Branches returns local and remote-tracking branches.
// Filters out HEAD pointers and deduplicates (local preferred over remote).
func (r *Repository) Branches() ([]BranchInfo, error) {
	seen := make(map[string]bool)
	var branches []BranchInfo

	branches, err := collectLocalBranches(r.repo, branches, seen)
	if err != nil {
		return nil, err
	}

	branches, err = collectRemoteBranches(r.repo, branches, seen)
	if err != nil {
		return nil, err
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})

	r.logger.Debug("listed branches", "count", len(branches))
	return branches, nil
}

// BranchNames returns every name accepted as a branch selector: each local
// branch plus each remote-tracking branch in "remote/name" form.
func (r *Repository) BranchNames() ([]string, error) {
	refIter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	var names []string
	err = refIter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() && !ref.Name().IsRemote() {
			return nil
		}
		name := ref.Name().Short()
		if strings.HasSuffix(name, "HEAD") {
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// suggestions returns deduplicated branch names for error messages.
func (r *Repository) suggestions() []string {
	branches, err := r.Branches()
	if err != nil {
		return nil
	}
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.DisplayName()
	}
	return names
}

// collectLocalBranches iterates local branches and adds them to the list.
func collectLocalBranches(repo *git.Repository, branches []BranchInfo, seen map[string]bool) ([]BranchInfo, error) {
	branchIter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing local branches: %w", err)
	}

	err = branchIter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if name == "HEAD" || strings.Contains(name, "HEAD") {
			return nil
		}
		branches = addBranchWithDedup(branches, BranchInfo{Name: name}, seen)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating local branches: %w", err)
	}

	return branches, nil
}

// collectRemoteBranches iterates remote-tracking branches and adds them to the list.
func collectRemoteBranches(repo *git.Repository, branches []BranchInfo, seen map[string]bool) ([]BranchInfo, error) {
	refIter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	err = refIter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() {
			return nil
		}

		fullName := ref.Name().Short() // e.g., "origin/main"
		if strings.Contains(fullName, "HEAD") {
			return nil
		}

		parts := strings.SplitN(fullName, "/", 2)
		if len(parts) != 2 {
			return nil
		}

		info := BranchInfo{
			Name:     parts[1],
			IsRemote: true,
			Remote:   parts[0],
		}
		branches = addBranchWithDedup(branches, info, seen)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating remote branches: %w", err)
	}

	return branches, nil
}

// addBranchWithDedup adds a branch, handling duplicates (prefer local over remote).
// If branch name already seen and new branch is local, replaces the existing
// remote branch in-place via linear scan. Otherwise appends if not seen.
func addBranchWithDedup(branches []BranchInfo, info BranchInfo, seen map[string]bool) []BranchInfo {
	key := info.Name

	if seen[key] && !info.IsRemote {
		for i, b := range branches {
			if b.Name == info.Name && b.IsRemote {
				branches[i] = info
				break
			}
		}
		return branches
	}

	if seen[key] {
		return branches
	}

	seen[key] = true
	return append(branches, info)
}

// branchReference looks a branch up by local name, then as a remote-tracking
// branch ("origin/main"). A missing branch is reported as not found.
func (r *Repository) branchReference(name string) (*plumbing.Reference, error) {
	candidates := []plumbing.ReferenceName{plumbing.NewBranchReferenceName(name)}
	if remote, branch, ok := strings.Cut(name, "/"); ok {
		candidates = append(candidates, plumbing.NewRemoteReferenceName(remote, branch))
	}

	for _, refName := range candidates {
		ref, err := r.repo.Reference(refName, true)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("looking up branch '%s': %w", name, err)
		}
	}

	return nil, commitrange.NotFound("branch", name, r.suggestions())
}

// ResolveCommit resolves a full hash, short hash, tag or revision expression
// (e.g. "HEAD~2") to a full commit hash.
func (r *Repository) ResolveCommit(rev string) (string, error) {
	return r.resolve(rev, rev)
}

// ResolveCommitFrom is ResolveCommit with HEAD standing for tip, so "HEAD~2"
// counts back from the selected branch rather than from the checked out one.
func (r *Repository) ResolveCommitFrom(rev, tip string) (string, error) {
	expr := rev
	if rest, ok := strings.CutPrefix(rev, "HEAD"); ok && (rest == "" || strings.ContainsRune("~^@", rune(rest[0]))) {
		expr = tip + rest
	}
	return r.resolve(expr, rev)
}

func (r *Repository) resolve(expr, rev string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(expr))
	if err != nil {
		r.logger.Debug("revision not resolved", "revision", rev, "expression", expr, "error", err)
		return "", commitrange.NotFound("commit", rev, nil)
	}
	return hash.String(), nil
}
