package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	"github.com/ariel-frischer/releasenotes/internal/config"
	clierrors "github.com/ariel-frischer/releasenotes/internal/errors"
	"github.com/ariel-frischer/releasenotes/internal/git"
	"github.com/ariel-frischer/releasenotes/internal/logging"
	"github.com/ariel-frischer/releasenotes/internal/output"
	"github.com/ariel-frischer/releasenotes/internal/progress"
	"github.com/ariel-frischer/releasenotes/internal/render"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// executable locates the running binary for the default output path.
var executable output.ExecutableFunc = os.Executable

// runGenerate is the root command: resolve the commit range and write the document.
func runGenerate(cmd *cobra.Command, global *globalFlags, flags *generateFlags) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if err := validateGenerateFlags(flags); err != nil {
		return err
	}

	loaded, err := loadConfig(cmd, global, flags.repoPath)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	outCaps := progress.For(stdout)
	errCaps := progress.For(stderr)
	if cfg.NoColor {
		color.NoColor = true
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: logging.Format(cfg.LogFormat),
		Color:  !cfg.NoColor && errCaps.SupportsColor,
		Writer: stderr,
	})
	if err != nil {
		return clierrors.ConfigInvalid(err)
	}
	logger.Debug("configuration loaded", "files", loaded.Files())

	if cfg.ShowLogo && outCaps.IsTTY {
		output.PrintLogo(stdout, outCaps.Width)
	}

	opts := selectionOptions(flags, cfg)
	if opts.PartialTagRange() {
		output.PrintWarning(stderr, "only one of --startTag and --endTag given, using end-commit mode")
		logger.Debug("partial tag range ignored", "startTag", opts.StartTag, "endTag", opts.EndTag)
		opts.StartTag, opts.EndTag = "", ""
	}

	var renderer render.Renderer
	renderer, err = render.New(render.Options{
		TemplatePath: cfg.Template,
		Markdown:     cfg.Markdown,
		DateFormat:   cfg.DateFormat,
	})
	if err != nil {
		var readErr *render.TemplateReadError
		if errors.As(err, &readErr) {
			return clierrors.TemplateNotFound(readErr.Path, readErr.Err)
		}
		return clierrors.RenderFailed(err)
	}

	outPath, err := output.ResolvePath(flags.outputPath, cfg.OutputFile, executable)
	if err != nil {
		return clierrors.FileNotWritable(cfg.OutputFile, err)
	}

	repo, err := git.Open(flags.repoPath, logger)
	if err != nil {
		return clierrors.RepositoryNotFound(flags.repoPath, err)
	}

	rng, err := resolveRange(repo, opts, cfg.Checkout, logger, stderr, errCaps)
	if err != nil {
		return err
	}

	if rng.Empty() {
		if cfg.FailOnEmpty {
			return clierrors.EmptyCommitRange(describeSelection(opts))
		}
		logger.Warn("no commits selected, writing an empty document", "selection", describeSelection(opts))
	}

	var html strings.Builder
	err = renderer.Render(&html, render.Document{
		ReleaseName:    flags.releaseName,
		ReleaseComment: flags.releaseComment,
		Changes:        rng.Commits,
	})
	if err != nil {
		return clierrors.RenderFailed(err)
	}

	if err := output.WriteDocument(outPath, html.String()); err != nil {
		return clierrors.FileNotWritable(outPath, err)
	}
	logger.Debug("release notes written", "path", outPath, "bytes", html.Len())

	output.PrintSuccess(stdout, rng.Len(), outPath)
	return nil
}

// validateGenerateFlags checks the required flags before any work is done.
func validateGenerateFlags(flags *generateFlags) error {
	required := []struct {
		name  string
		value string
	}{
		{"repoPath", flags.repoPath},
		{"branchName", flags.branchName},
		{"releaseName", flags.releaseName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return clierrors.MissingFlag(r.name)
		}
	}
	return nil
}

// loadConfig merges config files, environment and the flags the user actually set.
func loadConfig(cmd *cobra.Command, global *globalFlags, repoPath string) (*config.Loaded, error) {
	loaded, err := config.LoadWithOptions(config.LoadOptions{
		RepoPath:      repoPath,
		ConfigFile:    global.configFile,
		Overrides:     flagOverrides(cmd, global),
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigInvalid(err)
	}
	return loaded, nil
}

// flagOverrides maps explicitly set flags onto config keys.
func flagOverrides(cmd *cobra.Command, global *globalFlags) map[string]any {
	overrides := make(map[string]any)
	flags := cmd.Flags()

	if flags.Changed("excludeMerges") {
		if v, err := flags.GetBool("excludeMerges"); err == nil {
			overrides["exclude_merges"] = v
		}
	}
	if global.logLevel != "" {
		overrides["log_level"] = global.logLevel
	}
	if global.debug {
		overrides["log_level"] = "debug"
	}
	if global.logFormat != "" {
		overrides["log_format"] = global.logFormat
	}
	if global.noColor {
		overrides["no_color"] = true
	}
	return overrides
}

func selectionOptions(flags *generateFlags, cfg *config.Configuration) commitrange.Options {
	return commitrange.Options{
		Branch:            strings.TrimSpace(flags.branchName),
		StartTag:          strings.TrimSpace(flags.startTag),
		EndTag:            strings.TrimSpace(flags.endTag),
		EndCommitID:       strings.TrimSpace(flags.endCommitID),
		ExcludeMerges:     cfg.ExcludeMerges,
		LegacyTagFallback: cfg.LegacyTagFallback,
	}
}

// resolveRange reads the branch inside the scoped branch context and runs the
// resolver. The end commit is resolved there too, so HEAD in --endCommitId
// refers to the selected branch.
func resolveRange(repo *git.Repository, opts commitrange.Options, checkout bool, logger *slog.Logger, status io.Writer, caps progress.TerminalCapabilities) (commitrange.Range, error) {
	spin := progress.NewSpinner(status, caps)
	spin.Start(fmt.Sprintf("Reading history of %s", opts.Branch))

	resolver := commitrange.NewResolver(logger.With("component", "resolver"))
	var rng commitrange.Range
	err := repo.WithBranch(opts.Branch, checkout, func(snap git.Snapshot) error {
		if opts.EndCommitID != "" && !opts.TagRange() {
			hash, err := repo.ResolveCommitFrom(opts.EndCommitID, snap.Tip)
			if err != nil {
				return err
			}
			logger.Debug("resolved end commit", "revision", opts.EndCommitID, "hash", hash)
			opts.EndCommitID = hash
		}

		var err error
		rng, err = resolver.Resolve(snap.Input(), opts)
		return err
	})
	if err != nil {
		spin.Fail("")
		return commitrange.Range{}, err
	}

	spin.Success(fmt.Sprintf("%s, %d %s", rng.Mode, rng.Len(), pluralCommits(rng.Len())))
	logger.Info("resolved commit range", "mode", rng.Mode.String(), "commits", rng.Len(), "end", rng.End)
	return rng, nil
}

func describeSelection(opts commitrange.Options) string {
	switch {
	case opts.TagRange():
		return fmt.Sprintf("tags %s..%s on %s", opts.EndTag, opts.StartTag, opts.Branch)
	case opts.EndCommitID != "":
		return fmt.Sprintf("%s down to %s", opts.Branch, shortRevision(opts.EndCommitID))
	default:
		return fmt.Sprintf("branch %s", opts.Branch)
	}
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func pluralCommits(n int) string {
	if n == 1 {
		return "commit"
	}
	return "commits"
}
