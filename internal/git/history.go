package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// LoadIndex reads every commit reachable from the given tips into a graph index.
// Parents missing from the object store (shallow clones) end the walk quietly.
func (r *Repository) LoadIndex(tips ...string) (*commitrange.Index, error) {
	seen := make(map[plumbing.Hash]bool)
	var queue []plumbing.Hash
	for _, tip := range tips {
		h := plumbing.NewHash(tip)
		if !seen[h] {
			seen[h] = true
			queue = append(queue, h)
		}
	}

	var commits []commitrange.Commit
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]

		c, err := r.repo.CommitObject(h)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			r.logger.Debug("commit object missing", "hash", h.String())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading commit %s: %w", h, err)
		}

		commits = append(commits, toCommit(c))
		for _, p := range c.ParentHashes {
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}

	r.logger.Debug("loaded commit graph", "tips", len(tips), "commits", len(commits))
	return commitrange.NewIndex(commits), nil
}

// toCommit converts a go-git commit object into the domain model.
func toCommit(c *object.Commit) commitrange.Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}

	return commitrange.Commit{
		Hash:        c.Hash.String(),
		Parents:     parents,
		Author:      c.Author.Name,
		AuthorEmail: c.Author.Email,
		When:        c.Author.When,
		CommittedAt: c.Committer.When,
		Message:     strings.TrimRight(c.Message, "\n"),
	}
}
