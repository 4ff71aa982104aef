package commitrange

import (
	"errors"
	"fmt"
)

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	// KindNotFound means a branch, tag or commit does not exist.
	KindNotFound ErrorKind = iota
	// KindEmptyRange means no commit matched the criteria.
	KindEmptyRange
	// KindInvalid means the options were unusable.
	KindInvalid
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindEmptyRange:
		return "empty range"
	case KindInvalid:
		return "invalid options"
	default:
		return "error"
	}
}

var (
	// ErrNotFound matches any RangeError of kind KindNotFound.
	ErrNotFound = errors.New("not found")
	// ErrEmptyRange matches any RangeError of kind KindEmptyRange.
	ErrEmptyRange = errors.New("empty range")
	// ErrInvalid matches any RangeError of kind KindInvalid.
	ErrInvalid = errors.New("invalid options")
)

// RangeError describes why a range could not be resolved.
type RangeError struct {
	Kind ErrorKind
	// Subject is what was looked up: "branch", "tag" or "commit".
	Subject string
	// Name is the value that failed to resolve.
	Name string
	// Available lists known names for the subject, when useful.
	Available []string
	Msg       string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Subject != "" {
		return fmt.Sprintf("%s '%s' %s", e.Subject, e.Name, e.Kind)
	}
	return e.Kind.String()
}

// Is lets errors.Is match the package sentinels.
func (e *RangeError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrEmptyRange:
		return e.Kind == KindEmptyRange
	case ErrInvalid:
		return e.Kind == KindInvalid
	}
	return false
}

// NotFound builds a KindNotFound error for a named branch, tag or commit.
func NotFound(subject, name string, available []string) *RangeError {
	return &RangeError{
		Kind:      KindNotFound,
		Subject:   subject,
		Name:      name,
		Available: available,
		Msg:       fmt.Sprintf("specified %s '%s' was not found", subject, name),
	}
}
