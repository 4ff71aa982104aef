package commitrange

import (
	"strings"
	"time"
)

// Tag is a named pointer to a commit. Annotated tags are peeled so Target is
// always a commit hash.
type Tag struct {
	// Name is the friendly form, e.g. "v1.2.0".
	Name string
	// CanonicalName is the full reference name, e.g. "refs/tags/v1.2.0".
	CanonicalName string
	// Target is the hash of the tagged commit.
	Target string
}

// Matches reports whether name refers to this tag by friendly or canonical name.
func (t Tag) Matches(name string) bool {
	return t.Name == name || t.CanonicalName == name
}

// Commit is an immutable snapshot of a single commit.
type Commit struct {
	Hash        string
	Parents     []string
	Author      string
	AuthorEmail string
	When        time.Time
	CommittedAt time.Time
	Message     string
}

// IsMerge returns true when the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// ShortHash returns the first seven characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	msg := strings.TrimSpace(c.Message)
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return strings.TrimSpace(msg[:i])
	}
	return msg
}

// Body returns the commit message without its subject line.
func (c Commit) Body() string {
	msg := strings.TrimSpace(c.Message)
	i := strings.IndexByte(msg, '\n')
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(msg[i+1:])
}

// Mode identifies how the boundaries of a range were chosen.
type Mode int

const (
	// ModeEndCommit walks the branch from its tip down to a single end commit.
	ModeEndCommit Mode = iota
	// ModeTagRange selects commits reachable from a start tag but not an end tag.
	ModeTagRange
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeEndCommit:
		return "end-commit"
	case ModeTagRange:
		return "tag-range"
	default:
		return "unknown"
	}
}

// Options selects the commits to include.
type Options struct {
	Branch      string
	StartTag    string
	EndTag      string
	EndCommitID string
	// ExcludeMerges drops merge commits from the result. Merges still count
	// toward reaching the end boundary.
	ExcludeMerges bool
	// LegacyTagFallback uses the third tag, by descending name, as the end
	// boundary when neither tags nor an end commit are given.
	LegacyTagFallback bool
}

// TagRange reports whether both tag boundaries are set. A single tag is not
// enough to switch modes.
func (o Options) TagRange() bool {
	return strings.TrimSpace(o.StartTag) != "" && strings.TrimSpace(o.EndTag) != ""
}

// PartialTagRange reports whether exactly one tag boundary was given.
func (o Options) PartialTagRange() bool {
	start := strings.TrimSpace(o.StartTag) != ""
	end := strings.TrimSpace(o.EndTag) != ""
	return start != end
}

// Validate checks the options before use.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Branch) == "" {
		return &RangeError{Kind: KindInvalid, Msg: "branch name is required"}
	}
	return nil
}

// Range is the ordered result of a resolution, descendants first.
type Range struct {
	Mode    Mode
	Commits []Commit
	// End is the hash of the terminal boundary. Empty when the walk ran to the root.
	End string
}

// Empty returns true when no commit matched.
func (r Range) Empty() bool {
	return len(r.Commits) == 0
}

// Len returns the number of commits in the range.
func (r Range) Len() int {
	return len(r.Commits)
}

// Hashes returns the commit hashes in order.
func (r Range) Hashes() []string {
	hashes := make([]string, len(r.Commits))
	for i, c := range r.Commits {
		hashes[i] = c.Hash
	}
	return hashes
}
