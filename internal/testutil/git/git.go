package git

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	format "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/sqve/gitscope/internal/fs"
	"github.com/sqve/gitscope/internal/testutil"
)

// TestRepo is an on-disk repository built with go-git, without a git binary.
type TestRepo struct {
	t      *testing.T
	Dir    string // temp directory holding the repository and its worktrees
	Path   string // work tree, empty for bare repositories
	GitDir string
	Repo   *gogit.Repository
}

// NewTestRepo creates a repository with one committed file.
func NewTestRepo(t *testing.T) *TestRepo {
	t.Helper()

	dir := testutil.TempDir(t)
	repoPath := filepath.Join(dir, "repo")

	repo, err := gogit.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}

	r := &TestRepo{
		t:      t,
		Dir:    dir,
		Path:   repoPath,
		GitDir: filepath.Join(repoPath, ".git"),
		Repo:   repo,
	}
	r.WriteFile("README.md", "# Test Repo\n")
	r.Add("README.md")
	r.Commit("initial commit")

	return r
}

// NewBareTestRepo creates a bare repository without commits.
func NewBareTestRepo(t *testing.T) *TestRepo {
	t.Helper()

	dir := testutil.TempDir(t)
	gitDir := filepath.Join(dir, "repo.git")

	repo, err := gogit.PlainInit(gitDir, true)
	if err != nil {
		t.Fatalf("Failed to init bare repo: %v", err)
	}

	return &TestRepo{t: t, Dir: dir, GitDir: gitDir, Repo: repo}
}

// WriteFile writes a file relative to the work tree.
func (r *TestRepo) WriteFile(name, content string) {
	r.t.Helper()
	testutil.WriteFile(r.t, filepath.Join(r.Path, name), content)
}

// Add stages a file.
func (r *TestRepo) Add(name string) {
	r.t.Helper()
	wt, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("Failed to add %s: %v", name, err)
	}
}

// Commit records the staged changes.
func (r *TestRepo) Commit(message string) {
	r.t.Helper()
	wt, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("Failed to get worktree: %v", err)
	}
	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		r.t.Fatalf("Failed to commit: %v", err)
	}
}

// AdminDir is the admin directory of the linked worktree name.
func (r *TestRepo) AdminDir(name string) string {
	return filepath.Join(r.GitDir, "worktrees", name)
}

// AddLinkedWorktree lays out a linked worktree the way "git worktree add"
// does and returns the checkout path.
func (r *TestRepo) AddLinkedWorktree(name string) string {
	r.t.Helper()

	checkout := filepath.Join(r.Dir, name)
	admin := r.AdminDir(name)

	testutil.WriteFile(r.t, filepath.Join(admin, "HEAD"), "ref: refs/heads/"+name+"\n")
	testutil.WriteFile(r.t, filepath.Join(admin, "commondir"), "../..\n")
	testutil.WriteFile(r.t, filepath.Join(admin, "gitdir"), filepath.Join(checkout, ".git")+"\n")
	testutil.WriteFile(r.t, filepath.Join(checkout, ".git"), "gitdir: "+admin+"\n")

	return checkout
}

// LockWorktree writes the lock marker of a linked worktree.
func (r *TestRepo) LockWorktree(name, reason string) {
	r.t.Helper()
	testutil.WriteFile(r.t, filepath.Join(r.AdminDir(name), "locked"), reason)
}

// CopyIndexTo gives a linked worktree a copy of the main index.
func (r *TestRepo) CopyIndexTo(name string) {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.GitDir, "index")) // nolint:gosec // Test fixture
	if err != nil {
		r.t.Fatalf("Failed to read index: %v", err)
	}
	testutil.WriteFile(r.t, filepath.Join(r.AdminDir(name), "index"), string(data))
}

// WriteMarker creates a file relative to dir, which is usually a git dir.
func (r *TestRepo) WriteMarker(dir, rel, content string) {
	r.t.Helper()
	testutil.WriteFile(r.t, filepath.Join(dir, rel), content)
}

// MarkerDir creates a directory relative to dir.
func (r *TestRepo) MarkerDir(dir, rel string) {
	r.t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, rel), fs.DirGit); err != nil {
		r.t.Fatalf("Failed to create %s: %v", rel, err)
	}
}

// RemoveMarker deletes a file or directory relative to dir.
func (r *TestRepo) RemoveMarker(dir, rel string) {
	r.t.Helper()
	if err := os.RemoveAll(filepath.Join(dir, rel)); err != nil {
		r.t.Fatalf("Failed to remove %s: %v", rel, err)
	}
}

// SetConfig sets a key in the repository's config file.
func (r *TestRepo) SetConfig(section, subsection, key, value string) {
	r.t.Helper()

	path := filepath.Join(r.GitDir, "config")
	cfg := format.New()

	data, err := os.ReadFile(path) // nolint:gosec // Test fixture
	if err != nil && !os.IsNotExist(err) {
		r.t.Fatalf("Failed to read config: %v", err)
	}
	if err := format.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		r.t.Fatalf("Failed to decode config: %v", err)
	}

	cfg.SetOption(section, subsection, key, value)

	var buf bytes.Buffer
	if err := format.NewEncoder(&buf).Encode(cfg); err != nil {
		r.t.Fatalf("Failed to encode config: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), fs.FileGit); err != nil {
		r.t.Fatalf("Failed to write config: %v", err)
	}
}

// AppendConfig appends raw text to the config file. Use it for values the
// encoder would normalise, such as a key without "=".
func (r *TestRepo) AppendConfig(text string) {
	r.t.Helper()

	path := filepath.Join(r.GitDir, "config")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, fs.FileGit) // nolint:gosec // Test fixture
	if err != nil {
		r.t.Fatalf("Failed to open config: %v", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(text); err != nil {
		r.t.Fatalf("Failed to append config: %v", err)
	}
}
