package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sqve/gitscope/internal/app"
	"github.com/sqve/gitscope/internal/config"
	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/git"
	"github.com/sqve/gitscope/internal/report"
	"github.com/sqve/gitscope/internal/testutil"
	testgit "github.com/sqve/gitscope/internal/testutil/git"
)

func newRoot() *cobra.Command {
	return app.NewRootCommand(NewWorktreesCmd(), NewStateCmd(), NewIndexCmd(), NewInfoCmd(), NewConfigCmd())
}

// run executes the CLI in plain mode with an isolated home directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := testutil.TempDir(t)
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("GITSCOPE_CONFIG", "")
	t.Setenv("GITSCOPE_OUTPUT_PLAIN", "true")

	stdout, _, err := testutil.ExecuteCommand(t, newRoot(), args...)
	return stdout, err
}

func TestWorktreesCmd(t *testing.T) {
	fixture := testgit.NewTestRepo(t)
	fixture.AddLinkedWorktree("feature")
	fixture.LockWorktree("feature", "busy\n")

	out, err := run(t, "worktrees", fixture.Path)
	require.NoError(t, err)
	assert.Equal(t, "* (main)\n  feature [locked]\n", out)

	out, err = run(t, "worktrees", "-o", "json", fixture.Path)
	require.NoError(t, err)
	var rows []report.Worktree
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "busy", rows[1].LockReason)

	testutil.AssertFlag(t, NewWorktreesCmd(), "verbose", testutil.Flag{Default: testutil.Ptr("false"), Shorthand: "v"})
}

func TestStateCmd(t *testing.T) {
	fixture := testgit.NewTestRepo(t)

	out, err := run(t, "state", fixture.Path)
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)

	fixture.MarkerDir(fixture.GitDir, "rebase-merge")
	fixture.WriteMarker(fixture.GitDir, "rebase-merge/interactive", "")
	fixture.WriteMarker(fixture.GitDir, "MERGE_HEAD", "abc\n")

	out, err = run(t, "state", "--output", "yaml", fixture.Path)
	require.NoError(t, err)
	var view stateView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, git.RebaseInteractive, view.State)
	assert.Equal(t, fixture.GitDir, view.GitDir)
}

func TestStateCmdWatch(t *testing.T) {
	fixture := testgit.NewTestRepo(t)
	home := testutil.TempDir(t)
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("GITSCOPE_OUTPUT_PLAIN", "true")
	t.Setenv("GITSCOPE_WATCH_DEBOUNCE", "20ms")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := newRoot()
	out := &syncBuffer{}
	root.SetOut(out)
	root.SetArgs([]string{"state", "--watch", fixture.Path})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool { return out.String() == "none\n" }, 5*time.Second, 10*time.Millisecond)
	fixture.WriteMarker(fixture.GitDir, "BISECT_LOG", "start\n")
	require.Eventually(t, func() bool { return out.String() == "none\nbisect\n" }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestIndexCmd(t *testing.T) {
	fixture := testgit.NewTestRepo(t)

	out, err := run(t, "index", "-c", "index.threads=3", fixture.Path)
	require.NoError(t, err)
	assert.Contains(t, out, "entries:   1\n")
	assert.Contains(t, out, "threads:   3\n")

	out, err = run(t, "index", "--files", "-o", "json", fixture.Path)
	require.NoError(t, err)
	var idx report.Index
	require.NoError(t, json.Unmarshal([]byte(out), &idx))
	require.Len(t, idx.Files, 1)
	assert.Equal(t, "README.md", idx.Files[0].Name)
	assert.Equal(t, "default", idx.Threads)
}

func TestIndexCmdErrors(t *testing.T) {
	t.Run("bad thread count", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		_, err := run(t, "index", "-c", "index.threads=banana", fixture.Path)
		testutil.AssertErrorCode(t, err, errors.ErrCodeConfigInvalid)
	})

	t.Run("bad override syntax", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		_, err := run(t, "index", "-c", "threads", fixture.Path)
		var verrs config.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})

	t.Run("no index", func(t *testing.T) {
		fixture := testgit.NewBareTestRepo(t)
		_, err := run(t, "index", fixture.GitDir)
		testutil.AssertErrorCode(t, err, errors.ErrCodeIndexNotFound)
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := run(t, "index", testutil.TempDir(t))
		testutil.AssertErrorCode(t, err, errors.ErrCodeRepoNotFound)
	})
}

func TestInfoCmd(t *testing.T) {
	fixture := testgit.NewTestRepo(t)
	checkout := fixture.AddLinkedWorktree("feature")

	out, err := run(t, "info", checkout)
	require.NoError(t, err)
	assert.Contains(t, out, "kind:          linked\n")
	assert.Contains(t, out, "worktrees:     1\n")
}

func TestProjectFile(t *testing.T) {
	fixture := testgit.NewTestRepo(t)
	testutil.WriteFile(t, filepath.Join(fixture.Path, config.FileName), `[output]
format = "json"

[git]
overrides = ["index.threads=false"]
`)

	out, err := run(t, "info", fixture.Path)
	require.NoError(t, err)

	var summary report.Repository
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "1", summary.IndexThreads)

	t.Run("flags win", func(t *testing.T) {
		out, err := run(t, "info", "-o", "text", "-c", "index.threads=4", fixture.Path)
		require.NoError(t, err)
		assert.Contains(t, out, "index threads: 4\n")
	})

	t.Run("object format mismatch", func(t *testing.T) {
		testutil.WriteFile(t, filepath.Join(fixture.Path, config.FileName), "[git]\nobject_format = \"sha256\"\n")
		_, err := run(t, "info", fixture.Path)
		testutil.AssertErrorCode(t, err, errors.ErrCodeRepoUnsupported)
	})
}

func TestConfigCmd(t *testing.T) {
	dir := testutil.TempDir(t)

	out, err := run(t, "config", "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	testutil.AssertPathExists(t, filepath.Join(dir, config.FileName))

	_, err = run(t, "config", "init", dir)
	assert.Error(t, err)
	_, err = run(t, "config", "init", "--force", dir)
	assert.NoError(t, err)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "output.plain=true\n")
	assert.Contains(t, out, "watch.debounce=150ms\n")

	out, err = run(t, "config", "paths", "-o", "json")
	require.NoError(t, err)
	var paths []config.ConfigPathInfo
	require.NoError(t, json.Unmarshal([]byte(out), &paths))
	assert.NotEmpty(t, paths)
}

func TestInvalidSettings(t *testing.T) {
	_, err := run(t, "state", "--log-level", "loud", testutil.TempDir(t))
	var verrs config.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, strings.Contains(err.Error(), "logging.level"))
}
