// Package cli implements the releasenotes command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	clierrors "github.com/ariel-frischer/releasenotes/internal/errors"
	"github.com/ariel-frischer/releasenotes/internal/progress"
	"github.com/spf13/cobra"
)

// Command group IDs
const (
	GroupInfo          = "info"
	GroupConfiguration = "configuration"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	logLevel   string
	logFormat  string
	noColor    bool
	debug      bool
}

// generateFlags are the flags of the root command.
type generateFlags struct {
	repoPath       string
	branchName     string
	outputPath     string
	releaseName    string
	releaseComment string
	excludeMerges  bool
	endCommitID    string
	startTag       string
	endTag         string
}

// NewRootCmd builds a fresh command tree. Each call returns independent flag state.
func NewRootCmd() *cobra.Command {
	global := &globalFlags{}
	flags := &generateFlags{}

	rootCmd := &cobra.Command{
		Use:   "releasenotes",
		Short: "Generate HTML release notes from git history",
		Long: `Walk the commit history of a branch between two tags or down to an end commit,
optionally drop merge commits, and render the result as an HTML release notes document.`,
		Example: `  # Everything between two tags
  releasenotes -p . -b main --releaseName "v2.0" --startTag v2.0 --endTag v1.0

  # From the branch tip down to a commit
  releasenotes -p ~/src/app -b release --releaseName "Sprint 14" --endCommitId a1b2c3d

  # Keep merge commits and write to a custom location
  releasenotes -p . -b main --releaseName nightly --excludeMerges=false -o notes.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			hint := "All options are passed as flags, e.g. --branchName main"
			switch strings.ToLower(args[0]) {
			case "true", "false":
				hint = fmt.Sprintf("Boolean flags take their value after '=', e.g. --excludeMerges=%s", strings.ToLower(args[0]))
			}
			return clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("unexpected argument %q", args[0]), cmd.UseLine(), hint)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, global, flags)
		},
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupInfo, Title: "Information:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&global.configFile, "config", "", "Explicit config file (YAML or JSON)")
	pf.StringVar(&global.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&global.logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&global.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&global.debug, "debug", false, "Shorthand for --log-level debug")

	f := rootCmd.Flags()
	f.StringVarP(&flags.repoPath, "repoPath", "p", "", "Path to the git repository (required)")
	f.StringVarP(&flags.branchName, "branchName", "b", "", "Branch to read history from (required)")
	f.StringVarP(&flags.outputPath, "outputPath", "o", "", "Output file (default: ReleaseNotes.html next to the executable)")
	f.StringVar(&flags.releaseName, "releaseName", "", "Release title used in the document (required)")
	f.StringVar(&flags.releaseComment, "releaseComment", "", "Free-text note included in the document")
	f.BoolVar(&flags.excludeMerges, "excludeMerges", true, "Drop merge commits from the list")
	f.StringVar(&flags.endCommitID, "endCommitId", "", "Last commit to include (hash, short hash or revision)")
	f.StringVar(&flags.startTag, "startTag", "", "Newest tag of the range (use with --endTag)")
	f.StringVar(&flags.endTag, "endTag", "", "Older tag bounding the range, excluded (use with --startTag)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' for all options")
	})

	rootCmd.AddCommand(newVersionCmd(), newConfigCmd(global))
	return rootCmd
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes a fresh command tree with args. Errors are printed to stderr
// and translated to an exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	cliErr := classify(err)
	if progress.For(stderr).SupportsColor {
		clierrors.FprintError(stderr, cliErr)
	} else {
		fmt.Fprint(stderr, clierrors.FormatErrorPlain(cliErr))
	}
	return exitCode(cliErr.Category)
}
