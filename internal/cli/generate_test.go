// Package cli tests end-to-end release notes generation against go-git fixtures.
// Related: internal/cli/generate.go
// Tags: cli, generate, integration

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/releasenotes/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests are not parallel: they isolate the user config directory with
// t.Setenv and the CLI toggles the process-wide color setting.

type runResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the command tree with an empty user config directory.
func runCLI(t *testing.T, args ...string) runResult {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"RELEASENOTES_FAIL_ON_EMPTY", "RELEASENOTES_LOG_LEVEL", "RELEASENOTES_TEMPLATE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "releasenotes.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func subjectSpan(subject string) string {
	return `<span class="subject">` + subject + `</span>`
}

// taggedRepo builds C1..C5 on main with v1.0 at C2 and v2.0 at C4.
func taggedRepo(t *testing.T) (*testutil.GitRepo, []string) {
	t.Helper()

	g := testutil.NewGitRepo(t)
	hashes := g.Linear(5)
	g.Tag("v1.0", hashes[1])
	g.AnnotatedTag("v2.0", hashes[3], "release 2.0")
	return g, hashes
}

// mergeRepo builds base, a feature commit merged into main, and one commit after the merge.
func mergeRepo(t *testing.T) (*testutil.GitRepo, map[string]string) {
	t.Helper()

	g := testutil.NewGitRepo(t)
	commits := map[string]string{"base": g.Commit("base")}
	g.Branch("feature")
	g.Checkout("feature")
	commits["feature"] = g.Commit("feature work")
	g.Checkout("main")
	commits["main"] = g.Commit("main work")
	commits["merge"] = g.Merge("Merge feature", commits["feature"])
	commits["after"] = g.Commit("after merge")
	return g, commits
}

func TestGenerate_TagRange(t *testing.T) {
	g, _ := taggedRepo(t)
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "Release 2.0",
		"--startTag", "v2.0", "--endTag", "v1.0", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	html := readOutput(t, out)
	assert.Contains(t, html, "<title>Release 2.0</title>")
	assert.Contains(t, html, "Changes (2)")
	assert.Contains(t, html, subjectSpan("C4"))
	assert.Contains(t, html, subjectSpan("C3"))
	assert.NotContains(t, html, subjectSpan("C5"))
	assert.NotContains(t, html, subjectSpan("C2"))
	assert.Less(t, strings.Index(html, subjectSpan("C4")), strings.Index(html, subjectSpan("C3")))

	assert.Contains(t, res.stdout, "Release notes with 2 commits generated at "+out)
}

func TestGenerate_EndCommitExcludesMerges(t *testing.T) {
	tests := map[string]struct {
		extraArgs   []string
		wantMerge   bool
		wantCommits string
	}{
		"merges excluded by default": {
			wantMerge:   false,
			wantCommits: "with 4 commits",
		},
		"merges kept on request": {
			extraArgs:   []string{"--excludeMerges=false"},
			wantMerge:   true,
			wantCommits: "with 5 commits",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g, commits := mergeRepo(t)
			out := filepath.Join(t.TempDir(), "notes.html")

			args := []string{"-p", g.Dir, "-b", "main", "--releaseName", "Sprint",
				"--endCommitId", commits["base"][:7], "-o", out}
			res := runCLI(t, append(args, tt.extraArgs...)...)
			require.Equal(t, ExitSuccess, res.code, res.stderr)

			html := readOutput(t, out)
			for _, subject := range []string{"after merge", "main work", "feature work", "base"} {
				assert.Contains(t, html, subjectSpan(subject))
			}
			assert.Equal(t, tt.wantMerge, strings.Contains(html, subjectSpan("Merge feature")))
			assert.Contains(t, res.stdout, tt.wantCommits)
		})
	}
}

func TestGenerate_FeatureForkedBeforeEndCommitIsIncluded(t *testing.T) {
	g := testutil.NewGitRepo(t)
	g.Commit("before release")
	g.Branch("feature")
	g.Checkout("feature")
	side := g.Commit("feature work")
	g.Checkout("main")
	release := g.Commit("release commit")
	g.Merge("Merge feature", side)
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "Next",
		"--endCommitId", release, "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	html := readOutput(t, out)
	assert.Contains(t, html, subjectSpan("feature work"))
	assert.Contains(t, html, subjectSpan("release commit"))
	assert.NotContains(t, html, subjectSpan("Merge feature"))
	assert.NotContains(t, html, subjectSpan("before release"))
	assert.Contains(t, res.stdout, "Release notes with 2 commits")
}

func TestGenerate_RelativeEndCommitFollowsSelectedBranch(t *testing.T) {
	g, _ := taggedRepo(t)
	g.Branch("other")
	g.Checkout("other")
	g.Commit("other work")
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "Relative",
		"--endCommitId", "HEAD~1", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	html := readOutput(t, out)
	assert.Contains(t, html, subjectSpan("C5"))
	assert.Contains(t, html, subjectSpan("C4"))
	assert.NotContains(t, html, subjectSpan("other work"))
	assert.Contains(t, res.stdout, "Release notes with 2 commits")
	assert.Equal(t, "other", g.CurrentBranch())
}

func TestGenerate_WholeHistoryWithoutBoundary(t *testing.T) {
	g, _ := taggedRepo(t)
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "All", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, readOutput(t, out), "Changes (5)")
}

func TestGenerate_PartialTagRangeFallsBack(t *testing.T) {
	g, hashes := taggedRepo(t)
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "Partial",
		"--startTag", "v2.0", "--endCommitId", hashes[2], "-o", out, "--no-color")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	assert.Contains(t, res.stderr, "only one of --startTag and --endTag given")
	html := readOutput(t, out)
	assert.Contains(t, html, "Changes (3)")
	assert.Contains(t, html, subjectSpan("C5"))
	assert.Contains(t, html, subjectSpan("C3"))
}

func TestGenerate_ReleaseCommentAndEscaping(t *testing.T) {
	g := testutil.NewGitRepo(t)
	g.Commit("Fix <script> injection & friends")
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "R&D",
		"--releaseComment", "line one\nline <two>", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	html := readOutput(t, out)
	assert.Contains(t, html, "<title>R&amp;D</title>")
	assert.Contains(t, html, "line one<br/>line &lt;two&gt;")
	assert.Contains(t, html, subjectSpan("Fix &lt;script&gt; injection &amp; friends"))
	assert.NotContains(t, html, "<script>")
}

func TestGenerate_DefaultOutputNextToExecutable(t *testing.T) {
	g, _ := taggedRepo(t)
	binDir := t.TempDir()

	original := executable
	executable = func() (string, error) { return filepath.Join(binDir, "releasenotes"), nil }
	t.Cleanup(func() { executable = original })

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "Default")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	assert.FileExists(t, filepath.Join(binDir, "ReleaseNotes.html"))
}

func TestGenerate_EmptyRange(t *testing.T) {
	tests := map[string]struct {
		config   string
		wantCode int
		wantFile bool
	}{
		"written as empty document by default": {
			config:   "log_level: warn\n",
			wantCode: ExitSuccess,
			wantFile: true,
		},
		"fails when fail_on_empty is set": {
			config:   "fail_on_empty: true\n",
			wantCode: ExitEmptyRange,
			wantFile: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g, _ := taggedRepo(t)
			out := filepath.Join(t.TempDir(), "notes.html")

			res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "Empty",
				"--startTag", "v1.0", "--endTag", "v1.0", "-o", out,
				"--config", writeConfig(t, tt.config))
			require.Equal(t, tt.wantCode, res.code, res.stderr)

			if tt.wantFile {
				assert.Contains(t, readOutput(t, out), "No changes")
			} else {
				assert.NoFileExists(t, out)
				assert.Contains(t, res.stderr, "no commits selected")
			}
		})
	}
}

func TestGenerate_Failures(t *testing.T) {
	tests := map[string]struct {
		args       func(g *testutil.GitRepo, out string) []string
		wantCode   int
		wantStderr string
	}{
		"missing branch flag": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "--releaseName", "x", "-o", out}
			},
			wantCode:   ExitInvalidArguments,
			wantStderr: "required flag --branchName is missing",
		},
		"missing release name": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "-b", "main", "-o", out}
			},
			wantCode:   ExitInvalidArguments,
			wantStderr: "required flag --releaseName is missing",
		},
		"unknown flag": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"--branch", "main"}
			},
			wantCode:   ExitInvalidArguments,
			wantStderr: "unknown flag: --branch",
		},
		"positional argument": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"main"}
			},
			wantCode:   ExitInvalidArguments,
			wantStderr: `unexpected argument "main"`,
		},
		"boolean value after a space": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "-b", "main", "--releaseName", "x",
					"--excludeMerges", "false", "-o", out}
			},
			wantCode:   ExitInvalidArguments,
			wantStderr: "--excludeMerges=false",
		},
		"not a repository": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", filepath.Dir(out), "-b", "main", "--releaseName", "x", "-o", out}
			},
			wantCode:   ExitRuntime,
			wantStderr: "cannot open git repository",
		},
		"unknown branch": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "-b", "nope", "--releaseName", "x", "-o", out}
			},
			wantCode:   ExitNotFound,
			wantStderr: "specified branch 'nope' was not found",
		},
		"unknown tag": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "-b", "main", "--releaseName", "x",
					"--startTag", "v9.9", "--endTag", "v1.0", "-o", out}
			},
			wantCode:   ExitNotFound,
			wantStderr: "Available tags: v2.0, v1.0",
		},
		"unresolvable end commit": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "-b", "main", "--releaseName", "x",
					"--endCommitId", "deadbeef", "-o", out}
			},
			wantCode:   ExitNotFound,
			wantStderr: "specified commit 'deadbeef' was not found",
		},
		"output directory missing": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "-b", "main", "--releaseName", "x",
					"-o", filepath.Join(filepath.Dir(out), "missing", "notes.html")}
			},
			wantCode:   ExitIOFailed,
			wantStderr: "cannot write to file",
		},
		"invalid log level": {
			args: func(g *testutil.GitRepo, out string) []string {
				return []string{"-p", g.Dir, "-b", "main", "--releaseName", "x",
					"--log-level", "loud", "-o", out}
			},
			wantCode:   ExitConfigInvalid,
			wantStderr: "log_level",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g, _ := taggedRepo(t)
			out := filepath.Join(t.TempDir(), "notes.html")

			res := runCLI(t, tt.args(g, out)...)
			assert.Equal(t, tt.wantCode, res.code, res.stderr)
			assert.Contains(t, res.stderr, tt.wantStderr)
			assert.NotContains(t, res.stderr, "\x1b[", "errors to a non-terminal are plain text")
			assert.NoFileExists(t, out)
		})
	}
}

func TestGenerate_EndCommitNotOnBranch(t *testing.T) {
	g, _ := mergeRepo(t)
	g.Checkout("feature")
	orphan := g.Commit("only on feature")
	g.Checkout("main")
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "x",
		"--endCommitId", orphan, "-o", out)
	assert.Equal(t, ExitNotFound, res.code)
	assert.Contains(t, res.stderr, "is not on branch 'main'")
	assert.NoFileExists(t, out)
}

func TestGenerate_MissingTemplate(t *testing.T) {
	g, _ := taggedRepo(t)
	out := filepath.Join(t.TempDir(), "notes.html")
	cfg := writeConfig(t, "template: "+filepath.Join(t.TempDir(), "absent.tmpl")+"\n")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "x", "-o", out, "--config", cfg)
	assert.Equal(t, ExitConfigInvalid, res.code)
	assert.Contains(t, res.stderr, "cannot read template")
	assert.NoFileExists(t, out)
}

func TestGenerate_CustomTemplate(t *testing.T) {
	g, _ := taggedRepo(t)
	out := filepath.Join(t.TempDir(), "notes.txt")
	tmpl := filepath.Join(t.TempDir(), "custom.tmpl")
	require.NoError(t, os.WriteFile(tmpl,
		[]byte(`{{ .ReleaseName }}:{{ range .Changes }} {{ subject . }}{{ end }}`), 0o644))

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "Custom",
		"--startTag", "v2.0", "--endTag", "v1.0", "-o", out,
		"--config", writeConfig(t, "template: "+tmpl+"\n"))
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Custom: C4 C3", readOutput(t, out))
}

func TestGenerate_ProjectConfig(t *testing.T) {
	g, _ := mergeRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(g.Dir, ".releasenotes.yml"),
		[]byte("exclude_merges: false\n"), 0o644))
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "x", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, readOutput(t, out), subjectSpan("Merge feature"))

	// An explicit flag wins over the project file.
	res = runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "x", "-o", out, "--excludeMerges=true")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.NotContains(t, readOutput(t, out), subjectSpan("Merge feature"))
}

func TestGenerate_JSONLogs(t *testing.T) {
	g, _ := taggedRepo(t)
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "x", "-o", out,
		"--log-format", "json", "--debug")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	assert.Contains(t, res.stderr, `"msg":"resolved commit range"`)
	assert.Contains(t, res.stderr, `"run":"`)
	assert.Contains(t, res.stderr, `"msg":"configuration loaded"`)
	assert.Contains(t, res.stderr, `"level":"DEBUG"`)
}

func TestGenerate_RestoresCheckedOutBranch(t *testing.T) {
	g, _ := mergeRepo(t)
	g.Checkout("feature")
	out := filepath.Join(t.TempDir(), "notes.html")

	res := runCLI(t, "-p", g.Dir, "-b", "main", "--releaseName", "x", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "feature", g.CurrentBranch())
}
