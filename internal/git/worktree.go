package git

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/fs"
	"github.com/sqve/gitscope/internal/logger"
)

// Worktree is a checkout directory that belongs to a repository.
type Worktree struct {
	parent *Repository
	path   string
}

// Path is the checkout directory.
func (w *Worktree) Path() string { return w.path }

// Parent is the repository the checkout belongs to.
func (w *Worktree) Parent() *Repository { return w.parent }

// Proxy is a linked worktree that has been found but not yet validated.
// Nothing about it is read until a method asks for it.
type Proxy struct {
	parent *Repository
	gitDir string
}

// Parent is the repository the proxy was enumerated from.
func (p Proxy) Parent() *Repository { return p.parent }

// GitDir is the worktree's admin directory, <common>/worktrees/<name>.
func (p Proxy) GitDir() string { return p.gitDir }

// Name is the admin directory's base name, which git uses as the worktree id.
func (p Proxy) Name() string { return filepath.Base(p.gitDir) }

// Base returns the checkout directory recorded in the gitdir file.
func (p Proxy) Base() (string, error) {
	markerPath := filepath.Join(p.gitDir, gitDirFile)
	value, ok, err := fs.ReadMarker(markerPath)
	if err != nil {
		return "", errors.ErrFileSystem("read", markerPath, err)
	}
	if !ok {
		return "", errors.ErrWorktreeUnavailable(p.gitDir, "gitdir file vanished", nil)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.ErrWorktreeUnavailable(p.gitDir, "gitdir file is empty", nil)
	}
	return filepath.Dir(fs.ResolvePath(p.gitDir, value)), nil
}

// IsLocked reports whether the worktree carries a lock marker.
func (p Proxy) IsLocked() bool {
	return fs.PathExists(filepath.Join(p.gitDir, lockedFile))
}

// LockReason returns the text of the lock marker. ok is false when the
// worktree is not locked; a lock without reason yields ("", true).
func (p Proxy) LockReason() (reason string, ok bool) {
	value, ok, err := fs.ReadMarker(filepath.Join(p.gitDir, lockedFile))
	if err != nil || !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// Resolve validates the checkout and returns it.
func (p Proxy) Resolve() (*Worktree, error) {
	base, err := p.Base()
	if err != nil {
		return nil, err
	}
	if !fs.IsAccessibleDir(base) {
		return nil, errors.ErrWorktreeUnavailable(p.gitDir, "checkout "+base+" is not accessible", nil)
	}
	return &Worktree{parent: p.parent, path: base}, nil
}

// IntoRepo opens the worktree as a repository with the parent's options. The
// result has no work dir when the checkout is not accessible.
func (p Proxy) IntoRepo() (*Repository, error) {
	opts := p.parent.Options()
	opts.WorkDir = ""
	return Open(p.gitDir, opts)
}

// Worktrees lists the linked worktrees of the repository, sorted by admin
// directory.
func (r *Repository) Worktrees() ([]Proxy, error) {
	return ListWorktreeProxies(r, r.commonDir)
}

// ListWorktreeProxies enumerates <commonDir>/worktrees. Entries without a
// regular gitdir file are skipped. A missing worktrees directory is not an
// error.
func ListWorktreeProxies(parent *Repository, commonDir string) ([]Proxy, error) {
	dir := filepath.Join(commonDir, worktreesDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if fs.IsNotExist(err) {
			return []Proxy{}, nil
		}
		return nil, errors.ErrFileSystem("read", dir, err)
	}

	proxies := make([]Proxy, 0, len(entries))
	for _, entry := range entries {
		gitDir := filepath.Join(dir, entry.Name())
		if !fs.FileExists(filepath.Join(gitDir, gitDirFile)) {
			continue
		}
		proxies = append(proxies, Proxy{parent: parent, gitDir: gitDir})
	}

	slices.SortFunc(proxies, func(a, b Proxy) int {
		return strings.Compare(a.gitDir, b.gitDir)
	})

	logger.WithComponent("git").Debug("enumerated worktrees",
		"common_dir", commonDir,
		"count", len(proxies))

	return proxies, nil
}

// WorktreeRepos opens every linked worktree that has an accessible checkout,
// in sort order. Worktrees that fail to open are skipped.
func (r *Repository) WorktreeRepos() []*Repository {
	log := logger.WithComponent("git").WithOperation("worktree-repos")

	proxies, err := r.Worktrees()
	if err != nil {
		log.Debug("listing worktrees failed", "error", err)
		return nil
	}

	repos := make([]*Repository, len(proxies))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, proxy := range proxies {
		i, proxy := i, proxy
		g.Go(func() error {
			repo, err := proxy.IntoRepo()
			if err != nil {
				log.Debug("skipping worktree", "git_dir", proxy.GitDir(), "error", err)
				return nil
			}
			if _, ok := repo.WorkDir(); !ok {
				log.Debug("skipping worktree without checkout", "git_dir", proxy.GitDir())
				return nil
			}
			repos[i] = repo
			return nil
		})
	}
	_ = g.Wait()

	return slices.DeleteFunc(repos, func(repo *Repository) bool { return repo == nil })
}
