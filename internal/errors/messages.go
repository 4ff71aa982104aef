package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the releasenotes CLI.
// These templates ensure consistent, actionable error messages.

// maxSuggestions caps the number of available names listed in remediation.
const maxSuggestions = 10

// MissingFlag creates an error for a required flag that was not given.
func MissingFlag(flag string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("required flag --%s is missing", flag),
		"releasenotes -p <repoPath> -b <branchName> --releaseName <name>",
		fmt.Sprintf("Pass --%s on the command line", flag),
		"Run 'releasenotes --help' for all options",
	)
}

// RepositoryNotFound creates an error when the repository cannot be opened.
func RepositoryNotFound(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot open git repository at %s", path),
		"Check that --repoPath points inside a git working tree",
		"Verify with: git -C "+path+" status",
	)
}

// BranchNotFound creates an error for an unknown branch.
func BranchNotFound(name string, available []string, err error) *CLIError {
	return &CLIError{
		Category: NotFound,
		Message:  fmt.Sprintf("specified branch '%s' was not found", name),
		Remediation: []string{
			availableHint("branches", available),
			"Fetch remote branches first if the branch only exists upstream",
		},
		Err: err,
	}
}

// TagNotFound creates an error for an unknown tag.
func TagNotFound(name string, available []string, err error) *CLIError {
	return &CLIError{
		Category: NotFound,
		Message:  fmt.Sprintf("specified tag '%s' was not found", name),
		Remediation: []string{
			availableHint("tags", available),
			"Fetch tags first with: git fetch --tags",
		},
		Err: err,
	}
}

// CommitNotFound creates an error for an end commit that cannot be resolved
// or is not part of the branch history.
func CommitNotFound(err error) *CLIError {
	return Wrap(err, NotFound,
		"Check the commit id with: git log --oneline",
		"Make sure the commit is an ancestor of the selected branch",
	)
}

// EmptyCommitRange creates an error for a selection without commits.
func EmptyCommitRange(description string) *CLIError {
	return New(EmptyRange,
		fmt.Sprintf("no commits selected (%s)", description),
		"Check that the start boundary is newer than the end boundary",
		"Set fail_on_empty: false to write an empty document instead",
	)
}

// RenderFailed creates an error for a template execution failure.
func RenderFailed(err error) *CLIError {
	return WrapWithMessage(err, Render,
		"rendering release notes failed",
		"Check the custom template for syntax errors",
		"Unset 'template' in the config to use the built-in template",
	)
}

// TemplateNotFound creates an error for a missing custom template file.
func TemplateNotFound(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("cannot read template %s", path),
		"Check the 'template' setting in your config",
	)
}

// FileNotWritable creates an error when the output file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, IO,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check that the directory exists and is writable",
		"Or choose another location with --outputPath",
	)
}

// ConfigInvalid creates an error for an unreadable or invalid configuration.
func ConfigInvalid(err error) *CLIError {
	return Wrap(err, Configuration,
		"Fix the reported setting or remove it to use the default",
		"Show config locations with: releasenotes config path",
	)
}

// availableHint lists the first names of a collection for remediation output.
func availableHint(kind string, available []string) string {
	if len(available) == 0 {
		return fmt.Sprintf("No %s exist in this repository", kind)
	}
	names := available
	suffix := ""
	if len(names) > maxSuggestions {
		suffix = fmt.Sprintf(" (and %d more)", len(names)-maxSuggestions)
		names = names[:maxSuggestions]
	}
	return fmt.Sprintf("Available %s: %s%s", kind, strings.Join(names, ", "), suffix)
}
