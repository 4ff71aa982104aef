package git

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	"github.com/go-git/go-git/v5/plumbing"
)

// Tags returns all tags peeled to their commits, sorted by descending name.
// Tags that point at trees or blobs are skipped.
func (r *Repository) Tags() ([]commitrange.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []commitrange.Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target, err := r.peelTag(ref)
		if err != nil {
			r.logger.Debug("skipping tag", "tag", ref.Name().Short(), "error", err)
			return nil
		}
		tags = append(tags, commitrange.Tag{
			Name:          ref.Name().Short(),
			CanonicalName: ref.Name().String(),
			Target:        target.String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	r.logger.Debug("listed tags", "count", len(tags))
	return commitrange.SortTagsDescending(tags), nil
}

// peelTag returns the commit a tag reference points at. Lightweight tags point
// at the commit directly; annotated tags go through a tag object.
func (r *Repository) peelTag(ref *plumbing.Reference) (plumbing.Hash, error) {
	tagObj, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tagObj.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("peeling annotated tag: %w", err)
		}
		return commit.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		if _, err := r.repo.CommitObject(ref.Hash()); err != nil {
			return plumbing.ZeroHash, fmt.Errorf("tag target is not a commit: %w", err)
		}
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, err
	}
}
