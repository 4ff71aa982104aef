// Package cli tests the root command, its flags and the error to exit code mapping.
// Related: internal/cli/root.go, internal/cli/classify.go
// Tags: cli, root, flags, exit-codes

package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	clierrors "github.com/ariel-frischer/releasenotes/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	assert.Equal(t, "releasenotes", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_Flags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName   string
		shorthand  string
		persistent bool
		defValue   string
	}{
		"repoPath":       {flagName: "repoPath", shorthand: "p", defValue: ""},
		"branchName":     {flagName: "branchName", shorthand: "b", defValue: ""},
		"outputPath":     {flagName: "outputPath", shorthand: "o", defValue: ""},
		"releaseName":    {flagName: "releaseName", defValue: ""},
		"releaseComment": {flagName: "releaseComment", defValue: ""},
		"excludeMerges":  {flagName: "excludeMerges", defValue: "true"},
		"endCommitId":    {flagName: "endCommitId", defValue: ""},
		"startTag":       {flagName: "startTag", defValue: ""},
		"endTag":         {flagName: "endTag", defValue: ""},
		"config":         {flagName: "config", persistent: true, defValue: ""},
		"log-level":      {flagName: "log-level", persistent: true, defValue: ""},
		"log-format":     {flagName: "log-format", persistent: true, defValue: ""},
		"no-color":       {flagName: "no-color", persistent: true, defValue: "false"},
		"debug":          {flagName: "debug", persistent: true, defValue: "false"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rootCmd := NewRootCmd()
			flags := rootCmd.Flags()
			if tt.persistent {
				flags = rootCmd.PersistentFlags()
			}
			flag := flags.Lookup(tt.flagName)
			require.NotNil(t, flag, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	groups := make(map[string]string)
	for _, cmd := range rootCmd.Commands() {
		groups[cmd.Name()] = cmd.GroupID
	}

	assert.Equal(t, GroupInfo, groups["version"])
	assert.Equal(t, GroupConfiguration, groups["config"])
	assert.Len(t, rootCmd.Groups(), 2)
}

func TestNewRootCmd_IndependentState(t *testing.T) {
	t.Parallel()

	first := NewRootCmd()
	require.NoError(t, first.Flags().Set("branchName", "main"))

	second := NewRootCmd()
	assert.Equal(t, "", second.Flags().Lookup("branchName").Value.String())
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category clierrors.ErrorCategory
		want     int
	}{
		"runtime":       {category: clierrors.Runtime, want: ExitRuntime},
		"argument":      {category: clierrors.Argument, want: ExitInvalidArguments},
		"not found":     {category: clierrors.NotFound, want: ExitNotFound},
		"empty range":   {category: clierrors.EmptyRange, want: ExitEmptyRange},
		"render":        {category: clierrors.Render, want: ExitRenderFailed},
		"io":            {category: clierrors.IO, want: ExitIOFailed},
		"configuration": {category: clierrors.Configuration, want: ExitConfigInvalid},
		"unknown":       {category: clierrors.ErrorCategory(99), want: ExitRuntime},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCode(tt.category))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory clierrors.ErrorCategory
		wantMessage  string
	}{
		"cli error passes through": {
			err:          clierrors.MissingFlag("branchName"),
			wantCategory: clierrors.Argument,
			wantMessage:  "required flag --branchName is missing",
		},
		"wrapped cli error passes through": {
			err:          fmt.Errorf("outer: %w", clierrors.FileNotWritable("/x", errors.New("denied"))),
			wantCategory: clierrors.IO,
			wantMessage:  "cannot write to file: /x: denied",
		},
		"unknown branch": {
			err:          commitrange.NotFound("branch", "nope", []string{"main"}),
			wantCategory: clierrors.NotFound,
			wantMessage:  "specified branch 'nope' was not found",
		},
		"unknown tag": {
			err:          commitrange.NotFound("tag", "v9", nil),
			wantCategory: clierrors.NotFound,
			wantMessage:  "specified tag 'v9' was not found",
		},
		"unknown commit": {
			err:          commitrange.NotFound("commit", "abc", nil),
			wantCategory: clierrors.NotFound,
			wantMessage:  "specified commit 'abc' was not found",
		},
		"wrapped range error": {
			err:          fmt.Errorf("resolving: %w", commitrange.NotFound("tag", "v9", nil)),
			wantCategory: clierrors.NotFound,
			wantMessage:  "specified tag 'v9' was not found",
		},
		"invalid options": {
			err:          &commitrange.RangeError{Kind: commitrange.KindInvalid, Msg: "branch name is required"},
			wantCategory: clierrors.Argument,
			wantMessage:  "branch name is required",
		},
		"empty range": {
			err:          &commitrange.RangeError{Kind: commitrange.KindEmptyRange},
			wantCategory: clierrors.EmptyRange,
			wantMessage:  "empty range",
		},
		"anything else": {
			err:          errors.New("disk on fire"),
			wantCategory: clierrors.Runtime,
			wantMessage:  "disk on fire",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestClassify_BranchSuggestions(t *testing.T) {
	t.Parallel()

	got := classify(commitrange.NotFound("branch", "mian", []string{"main", "develop"}))
	require.NotEmpty(t, got.Remediation)
	assert.Equal(t, "Available branches: main, develop", got.Remediation[0])
}
