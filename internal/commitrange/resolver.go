package commitrange

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// legacyTagIndex is the position, in the descending-by-name tag list, of the tag
// used as the default end boundary when LegacyTagFallback is enabled.
const legacyTagIndex = 2

// Input is the repository state a resolution reads from.
type Input struct {
	// Branches holds the known branch names.
	Branches []string
	// Tags holds every tag of the repository.
	Tags []Tag
	// BranchCommits is the history reachable from the branch tip, tip first,
	// in topological order.
	BranchCommits []Commit
	// Graph is consulted in tag-range mode.
	Graph Graph
}

// Resolver selects the commits that belong in a release.
// It holds no state between calls.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards debug output.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{logger: logger}
}

// Resolve returns the ordered commits selected by opts. An empty result is
// returned as an empty Range, not as an error.
func (r *Resolver) Resolve(in Input, opts Options) (Range, error) {
	if err := opts.Validate(); err != nil {
		return Range{}, err
	}

	if !containsBranch(in.Branches, opts.Branch) {
		return Range{}, NotFound("branch", opts.Branch, in.Branches)
	}

	if opts.TagRange() {
		return r.resolveTagRange(in, opts)
	}
	return r.resolveEndCommit(in, opts)
}

func (r *Resolver) resolveTagRange(in Input, opts Options) (Range, error) {
	startName := strings.TrimSpace(opts.StartTag)
	endName := strings.TrimSpace(opts.EndTag)

	start, ok := FindTag(in.Tags, startName)
	if !ok {
		return Range{}, NotFound("tag", startName, tagNames(in.Tags))
	}
	end, ok := FindTag(in.Tags, endName)
	if !ok {
		return Range{}, NotFound("tag", endName, tagNames(in.Tags))
	}
	if in.Graph == nil {
		return Range{}, &RangeError{Kind: KindInvalid, Msg: "tag-range mode requires a commit graph"}
	}

	commits, err := in.Graph.Between(start.Target, end.Target)
	if err != nil {
		return Range{}, fmt.Errorf("collecting commits between %s and %s: %w", start.Name, end.Name, err)
	}

	r.logger.Debug("tag range collected",
		"start", start.Name, "end", end.Name, "candidates", len(commits))

	rng := Range{Mode: ModeTagRange}
	if len(commits) == 0 {
		return rng, nil
	}
	rng.End = commits[len(commits)-1].Hash
	rng.Commits, _ = walk(commits, rng.End, opts.ExcludeMerges)
	return rng, nil
}

func (r *Resolver) resolveEndCommit(in Input, opts Options) (Range, error) {
	end, err := endBoundary(in.Tags, opts)
	if err != nil {
		return Range{}, err
	}

	r.logger.Debug("walking branch history",
		"branch", opts.Branch, "end", end, "history", len(in.BranchCommits))

	commits, reached := walk(in.BranchCommits, end, opts.ExcludeMerges)
	if end != "" && !reached {
		return Range{}, &RangeError{
			Kind:    KindNotFound,
			Subject: "commit",
			Name:    end,
			Msg:     fmt.Sprintf("end commit '%s' is not on branch '%s'", end, opts.Branch),
		}
	}

	return Range{Mode: ModeEndCommit, Commits: commits, End: end}, nil
}

// endBoundary picks the terminal commit for single end-commit mode.
// An empty result means the walk covers the whole history.
func endBoundary(tags []Tag, opts Options) (string, error) {
	if id := strings.TrimSpace(opts.EndCommitID); id != "" {
		return strings.ToLower(id), nil
	}
	if !opts.LegacyTagFallback {
		return "", nil
	}

	sorted := SortTagsDescending(tags)
	if len(sorted) <= legacyTagIndex {
		return "", &RangeError{
			Kind:    KindNotFound,
			Subject: "tag",
			Msg: fmt.Sprintf("legacy end tag fallback needs at least %d tags, repository has %d",
				legacyTagIndex+1, len(sorted)),
		}
	}
	return sorted[legacyTagIndex].Target, nil
}

// walk copies commits in order until end is processed. Merges are skipped when
// excludeMerges is set but still terminate the walk. It reports whether end was seen.
func walk(commits []Commit, end string, excludeMerges bool) ([]Commit, bool) {
	var out []Commit
	for _, c := range commits {
		isLast := end != "" && c.Hash == end
		if !(excludeMerges && c.IsMerge()) {
			out = append(out, c)
		}
		if isLast {
			return out, true
		}
	}
	return out, false
}

// FindTag looks a tag up by friendly or canonical name.
func FindTag(tags []Tag, name string) (Tag, bool) {
	for _, t := range tags {
		if t.Matches(name) {
			return t, true
		}
	}
	return Tag{}, false
}

// SortTagsDescending returns a copy of tags ordered by descending friendly name.
func SortTagsDescending(tags []Tag) []Tag {
	sorted := make([]Tag, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name > sorted[j].Name
	})
	return sorted
}

func containsBranch(branches []string, name string) bool {
	for _, b := range branches {
		if b == name {
			return true
		}
	}
	return false
}

func tagNames(tags []Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}
