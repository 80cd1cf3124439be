package git

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/fs"
	"github.com/sqve/gitscope/internal/testutil"
	testgit "github.com/sqve/gitscope/internal/testutil/git"
)

func openFixture(t *testing.T, fixture *testgit.TestRepo) *Repository {
	t.Helper()
	path := fixture.Path
	if path == "" {
		path = fixture.GitDir
	}
	repo, err := Open(path, Options{})
	require.NoError(t, err)
	return repo
}

func proxyNames(proxies []Proxy) []string {
	names := make([]string, 0, len(proxies))
	for _, p := range proxies {
		names = append(names, p.Name())
	}
	return names
}

func TestWorktrees(t *testing.T) {
	t.Run("no worktrees directory", func(t *testing.T) {
		repo := openFixture(t, testgit.NewTestRepo(t))

		proxies, err := repo.Worktrees()
		require.NoError(t, err)
		assert.NotNil(t, proxies)
		assert.Empty(t, proxies)
	})

	t.Run("worktrees is a file", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		testutil.WriteFile(t, filepath.Join(fixture.GitDir, "worktrees"), "")

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)
		assert.Empty(t, proxies)
	})

	t.Run("valid entries only, sorted", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		for _, name := range []string{"charlie", "alpha", "bravo"} {
			fixture.AddLinkedWorktree(name)
		}

		// Missing gitdir file
		require.NoError(t, os.MkdirAll(fixture.AdminDir("delta"), fs.DirGit))
		// gitdir is a directory
		require.NoError(t, os.MkdirAll(filepath.Join(fixture.AdminDir("echo"), "gitdir"), fs.DirGit))
		// Stray file
		testutil.WriteFile(t, filepath.Join(fixture.GitDir, "worktrees", "foxtrot"), "x")

		repo := openFixture(t, fixture)
		proxies, err := repo.Worktrees()
		require.NoError(t, err)

		assert.Equal(t, []string{"alpha", "bravo", "charlie"}, proxyNames(proxies))
		for _, p := range proxies {
			assert.Same(t, repo, p.Parent())
			assert.Equal(t, fixture.AdminDir(p.Name()), p.GitDir())
		}
	})

	t.Run("enumeration is idempotent", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		fixture.AddLinkedWorktree("b")
		fixture.AddLinkedWorktree("a")
		repo := openFixture(t, fixture)

		first, err := repo.Worktrees()
		require.NoError(t, err)
		second, err := repo.Worktrees()
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("contents are not validated", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		fixture.AddLinkedWorktree("broken")
		testutil.WriteFile(t, filepath.Join(fixture.AdminDir("broken"), "gitdir"), "")

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)
		assert.Len(t, proxies, 1)
	})

	t.Run("unreadable directory propagates", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Getuid() == 0 {
			t.Skip("permission bits are not enforced here")
		}
		fixture := testgit.NewTestRepo(t)
		fixture.AddLinkedWorktree("a")
		dir := filepath.Join(fixture.GitDir, "worktrees")
		require.NoError(t, os.Chmod(dir, 0o000))
		t.Cleanup(func() { _ = os.Chmod(dir, fs.DirGit) })

		_, err := openFixture(t, fixture).Worktrees()
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeFileSystem))
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("linked worktree lists its siblings", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		checkout := fixture.AddLinkedWorktree("a")
		fixture.AddLinkedWorktree("b")

		repo, err := Open(checkout, Options{})
		require.NoError(t, err)

		proxies, err := repo.Worktrees()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, proxyNames(proxies))
	})
}

func TestProxy(t *testing.T) {
	t.Run("base is the checkout", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		checkout := fixture.AddLinkedWorktree("feature")

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)
		require.Len(t, proxies, 1)

		base, err := proxies[0].Base()
		require.NoError(t, err)
		assert.Equal(t, checkout, base)
	})

	t.Run("vanished gitdir file is unavailable", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		fixture.AddLinkedWorktree("feature")

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)
		require.NoError(t, os.Remove(filepath.Join(fixture.AdminDir("feature"), "gitdir")))

		_, err = proxies[0].Base()
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeWorktreeUnavailable))
	})

	t.Run("lock marker", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		fixture.AddLinkedWorktree("locked")
		fixture.AddLinkedWorktree("open")
		fixture.LockWorktree("locked", "on a usb stick\n")

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)
		require.Len(t, proxies, 2)

		assert.True(t, proxies[0].IsLocked())
		reason, ok := proxies[0].LockReason()
		assert.True(t, ok)
		assert.Equal(t, "on a usb stick", reason)

		assert.False(t, proxies[1].IsLocked())
		_, ok = proxies[1].LockReason()
		assert.False(t, ok)
	})

	t.Run("resolve", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		checkout := fixture.AddLinkedWorktree("feature")
		repo := openFixture(t, fixture)

		proxies, err := repo.Worktrees()
		require.NoError(t, err)

		wt, err := proxies[0].Resolve()
		require.NoError(t, err)
		assert.Equal(t, checkout, wt.Path())
		assert.Same(t, repo, wt.Parent())
	})

	t.Run("resolve without checkout", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		checkout := fixture.AddLinkedWorktree("feature")
		require.NoError(t, os.RemoveAll(checkout))

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)
		require.Len(t, proxies, 1)

		_, err = proxies[0].Resolve()
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeWorktreeUnavailable))
	})

	t.Run("into repo", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		checkout := fixture.AddLinkedWorktree("feature")

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)

		repo, err := proxies[0].IntoRepo()
		require.NoError(t, err)
		assert.Equal(t, fixture.AdminDir("feature"), repo.GitDir())
		assert.Equal(t, fixture.GitDir, repo.CommonDir())
		workDir, ok := repo.WorkDir()
		assert.True(t, ok)
		assert.Equal(t, checkout, workDir)
	})

	t.Run("into repo without checkout", func(t *testing.T) {
		fixture := testgit.NewTestRepo(t)
		checkout := fixture.AddLinkedWorktree("feature")
		require.NoError(t, os.RemoveAll(checkout))

		proxies, err := openFixture(t, fixture).Worktrees()
		require.NoError(t, err)

		repo, err := proxies[0].IntoRepo()
		require.NoError(t, err)
		_, ok := repo.Worktree()
		assert.False(t, ok)
	})
}

func TestWorktreeRepos(t *testing.T) {
	fixture := testgit.NewTestRepo(t)
	var checkouts []string
	for _, name := range []string{"a", "b", "c", "d"} {
		checkouts = append(checkouts, fixture.AddLinkedWorktree(name))
	}
	require.NoError(t, os.RemoveAll(checkouts[1]))
	// Admin dir that cannot be opened
	require.NoError(t, os.Remove(filepath.Join(fixture.AdminDir("d"), "HEAD")))

	repos := openFixture(t, fixture).WorktreeRepos()
	require.Len(t, repos, 2)

	for i, want := range []string{checkouts[0], checkouts[2]} {
		wt, ok := repos[i].Worktree()
		require.True(t, ok)
		assert.Equal(t, want, wt.Path())
		assert.Equal(t, KindLinked, repos[i].Kind())
	}
}

func TestWorktreeReposWithoutWorktrees(t *testing.T) {
	repos := openFixture(t, testgit.NewBareTestRepo(t)).WorktreeRepos()
	assert.Empty(t, repos)
}
