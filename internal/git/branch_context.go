package git

import (
	"fmt"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Snapshot is the read-only view of a branch handed to WithBranch callbacks.
type Snapshot struct {
	// Branch is the selected branch name.
	Branch string
	// Tip is the hash the branch points at.
	Tip string
	// Branches holds every selectable branch name.
	Branches []string
	// Tags holds all tags, sorted by descending name.
	Tags []commitrange.Tag
	// BranchCommits is the branch history in topological order, tip first.
	BranchCommits []commitrange.Commit
	// Index covers the branch history and the history of every tag.
	Index *commitrange.Index
}

// Input adapts the snapshot for the range resolver.
func (s Snapshot) Input() commitrange.Input {
	return commitrange.Input{
		Branches:      s.Branches,
		Tags:          s.Tags,
		BranchCommits: s.BranchCommits,
		Graph:         s.Index,
	}
}

// WithBranch runs fn against a snapshot of the named branch.
//
// With checkout enabled HEAD is moved to the branch first and the previously
// checked out branch or detached commit is restored on every exit path,
// including errors and panics raised by fn. The move is a soft reset: the
// worktree and index are left exactly as they were, with or without checkout.
func (r *Repository) WithBranch(name string, checkout bool, fn func(Snapshot) error) (err error) {
	ref, err := r.branchReference(name)
	if err != nil {
		return err
	}

	if checkout {
		restore, checkoutErr := r.checkout(ref)
		if checkoutErr != nil {
			return checkoutErr
		}
		defer func() {
			if restoreErr := restore(); restoreErr != nil && err == nil {
				err = restoreErr
			}
		}()
	}

	snap, err := r.snapshot(name, ref)
	if err != nil {
		return err
	}
	return fn(snap)
}

// checkout points HEAD at ref and returns a function that puts the previous
// HEAD back.
func (r *Repository) checkout(ref *plumbing.Reference) (func() error, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	previous, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	if err := worktree.Checkout(checkoutOptions(ref)); err != nil {
		return nil, fmt.Errorf("checking out '%s': %w", ref.Name().Short(), err)
	}
	r.logger.Debug("checked out branch", "branch", ref.Name().Short(), "previous", previous.Name().Short())

	restore := func() error {
		if err := worktree.Checkout(checkoutOptions(previous)); err != nil {
			return fmt.Errorf("restoring '%s': %w", previous.Name().Short(), err)
		}
		r.logger.Debug("restored previous HEAD", "ref", previous.Name().Short())
		return nil
	}
	return restore, nil
}

// checkoutOptions builds the options that move HEAD to ref.
// Local branches are checked out by name; anything else detaches HEAD.
// Keep makes go-git move HEAD only; the worktree and index stay untouched.
func checkoutOptions(ref *plumbing.Reference) *git.CheckoutOptions {
	if ref.Name().IsBranch() {
		return &git.CheckoutOptions{Branch: ref.Name(), Keep: true}
	}
	return &git.CheckoutOptions{Hash: ref.Hash(), Keep: true}
}

// snapshot gathers everything the resolver needs for the branch at ref.
func (r *Repository) snapshot(name string, ref *plumbing.Reference) (Snapshot, error) {
	branches, err := r.BranchNames()
	if err != nil {
		return Snapshot{}, err
	}

	tags, err := r.Tags()
	if err != nil {
		return Snapshot{}, err
	}

	tip := ref.Hash().String()
	tips := []string{tip}
	for _, t := range tags {
		tips = append(tips, t.Target)
	}

	index, err := r.LoadIndex(tips...)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Branch:        name,
		Tip:           tip,
		Branches:      branches,
		Tags:          tags,
		BranchCommits: index.TopoOrder(tip),
		Index:         index,
	}, nil
}
