package commitrange

// Graph answers reachability questions about the commit graph.
type Graph interface {
	// Between returns the commits reachable from include but not from exclude,
	// in topological order (descendants first).
	Between(include, exclude string) ([]Commit, error)
}

// Index is an in-memory commit DAG keyed by hash.
// Parents that are not part of the index (shallow clones) are ignored.
type Index struct {
	commits map[string]Commit
}

// NewIndex builds an index from commits in any order.
func NewIndex(commits []Commit) *Index {
	idx := &Index{commits: make(map[string]Commit, len(commits))}
	for _, c := range commits {
		idx.commits[c.Hash] = c
	}
	return idx
}

// Len returns the number of indexed commits.
func (idx *Index) Len() int {
	return len(idx.commits)
}

// Has reports whether hash is indexed.
func (idx *Index) Has(hash string) bool {
	_, ok := idx.commits[hash]
	return ok
}

// Commit returns the indexed commit for hash.
func (idx *Index) Commit(hash string) (Commit, bool) {
	c, ok := idx.commits[hash]
	return c, ok
}

// Reachable returns the set of commits reachable from hash, including hash itself.
func (idx *Index) Reachable(hash string) map[string]bool {
	seen := make(map[string]bool)
	if !idx.Has(hash) {
		return seen
	}

	queue := []string{hash}
	seen[hash] = true
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		for _, p := range idx.commits[h].Parents {
			if seen[p] || !idx.Has(p) {
				continue
			}
			seen[p] = true
			queue = append(queue, p)
		}
	}
	return seen
}

// TopoOrder returns every commit reachable from tips with each commit placed
// before all of its ancestors. The order matches git log --topo-order: the
// last parent of a merge is visited first, so a merge is followed by the side
// branch it brought in and then by its first-parent line.
// Unknown tips are skipped.
func (idx *Index) TopoOrder(tips ...string) []Commit {
	reachable := make(map[string]bool)
	for _, tip := range tips {
		for h := range idx.Reachable(tip) {
			reachable[h] = true
		}
	}

	// Count children inside the reachable set.
	pending := make(map[string]int, len(reachable))
	for h := range reachable {
		for _, p := range idx.commits[h].Parents {
			if reachable[p] {
				pending[p]++
			}
		}
	}

	var stack []string
	queued := make(map[string]bool)
	for i := len(tips) - 1; i >= 0; i-- {
		tip := tips[i]
		if reachable[tip] && pending[tip] == 0 && !queued[tip] {
			queued[tip] = true
			stack = append(stack, tip)
		}
	}

	order := make([]Commit, 0, len(reachable))
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := idx.commits[h]
		order = append(order, c)

		// The last parent pushed is popped next.
		for i := 0; i < len(c.Parents); i++ {
			p := c.Parents[i]
			if !reachable[p] {
				continue
			}
			pending[p]--
			if pending[p] == 0 && !queued[p] {
				queued[p] = true
				stack = append(stack, p)
			}
		}
	}

	return order
}

// Between implements Graph.
func (idx *Index) Between(include, exclude string) ([]Commit, error) {
	if !idx.Has(include) {
		return nil, NotFound("commit", include, nil)
	}
	if !idx.Has(exclude) {
		return nil, NotFound("commit", exclude, nil)
	}

	excluded := idx.Reachable(exclude)
	var result []Commit
	for _, c := range idx.TopoOrder(include) {
		if !excluded[c.Hash] {
			result = append(result, c)
		}
	}
	return result, nil
}
