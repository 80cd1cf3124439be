package git

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/fs"
	"github.com/sqve/gitscope/internal/gitconfig"
	"github.com/sqve/gitscope/internal/logger"
)

// Options controls how a repository is opened. The same options are used to
// reopen related repositories, such as the main repository of a worktree.
type Options struct {
	// WorkDir overrides work tree discovery.
	WorkDir string
	// ObjectHash, when set, must match the repository's object format.
	ObjectHash gitconfig.ObjectHash
	// ConfigOverrides take precedence over the repository's config files.
	ConfigOverrides []gitconfig.Entry
}

func (o Options) clone() Options {
	o.ConfigOverrides = slices.Clone(o.ConfigOverrides)
	return o
}

// Kind describes what a repository handle points at.
type Kind int

const (
	KindMain Kind = iota
	KindBare
	KindLinked
)

func (k Kind) String() string {
	switch k {
	case KindBare:
		return "bare"
	case KindLinked:
		return "linked"
	default:
		return "main"
	}
}

// Repository is an opened repository. It is never modified after Open and is
// safe to share between goroutines.
type Repository struct {
	gitDir     string
	commonDir  string
	workDir    string
	config     *gitconfig.Snapshot
	objectHash gitconfig.ObjectHash
	bare       bool
	options    Options
}

// Open opens the repository at path. path may be a work tree, a directory
// with a .git file, a git directory or a linked worktree admin directory.
func Open(path string, opts Options) (*Repository, error) {
	log := logger.WithComponent("git").WithOperation("open")

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.ErrRepoOpen(path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if fs.IsNotExist(err) {
			return nil, errors.ErrRepoNotFound(abs, "path does not exist")
		}
		return nil, errors.ErrRepoOpen(abs, errors.ErrFileSystem("stat", abs, err))
	}
	if !info.IsDir() {
		return nil, errors.ErrRepoNotFound(abs, "not a directory")
	}

	gitDir, checkout, err := locateGitDir(abs)
	if err != nil {
		return nil, err
	}

	commonDir, err := resolveCommonDir(gitDir)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(gitDir, commonDir, opts.ConfigOverrides)
	if err != nil {
		return nil, err
	}

	version, err := cfg.FormatVersion()
	if err != nil {
		return nil, errors.ErrRepoOpen(commonDir, configError(err))
	}
	if version > 1 {
		return nil, errors.ErrRepoUnsupported(commonDir, "repositoryformatversion "+strconv.FormatInt(version, 10))
	}

	objectHash, err := cfg.ObjectHash()
	if err != nil {
		return nil, errors.ErrRepoOpen(commonDir, configError(err))
	}
	if opts.ObjectHash != 0 && opts.ObjectHash != objectHash {
		return nil, errors.ErrRepoUnsupported(commonDir,
			"object format is "+objectHash.String()+", expected "+opts.ObjectHash.String())
	}

	bare, present, err := cfg.Boolean("core", "", "bare")
	if err != nil {
		return nil, errors.ErrRepoOpen(commonDir, configError(err))
	}
	if !present {
		bare = checkout == "" && gitDir == commonDir && filepath.Base(gitDir) != dotGit
	}

	repo := &Repository{
		gitDir:     gitDir,
		commonDir:  commonDir,
		config:     cfg,
		objectHash: objectHash,
		bare:       bare,
		options:    opts.clone(),
	}
	repo.workDir = resolveWorkDir(repo, checkout, opts)

	log.Debug("opened repository",
		"git_dir", repo.gitDir,
		"common_dir", repo.commonDir,
		"work_dir", repo.workDir,
		"bare", repo.bare)

	return repo, nil
}

// locateGitDir finds the git directory for dir. checkout is dir when it was
// found through a .git entry inside it.
func locateGitDir(dir string) (gitDir, checkout string, err error) {
	dotGitPath := filepath.Join(dir, dotGit)

	if fs.DirectoryExists(dotGitPath) && isGitDir(dotGitPath) {
		return dotGitPath, dir, nil
	}

	if fs.FileExists(dotGitPath) {
		target, err := readGitFile(dotGitPath)
		if err != nil {
			return "", "", err
		}
		if !isGitDir(target) {
			return "", "", errors.ErrRepoNotFound(dir, ".git file points to "+target)
		}
		return target, dir, nil
	}

	if isGitDir(dir) {
		return dir, "", nil
	}

	return "", "", errors.ErrRepoNotFound(dir, "no git directory")
}

// readGitFile reads a "gitdir: <path>" file as written into linked worktrees
// and submodules.
func readGitFile(path string) (string, error) {
	content, ok, err := fs.ReadMarker(path)
	if err != nil {
		return "", errors.ErrRepoOpen(path, errors.ErrFileSystem("read", path, err))
	}
	if !ok || !strings.HasPrefix(content, gitFilePrefix) {
		return "", errors.ErrRepoNotFound(filepath.Dir(path), "invalid .git file")
	}
	target := strings.TrimSpace(strings.TrimPrefix(content, gitFilePrefix))
	return fs.ResolvePath(filepath.Dir(path), target), nil
}

func isGitDir(dir string) bool {
	if !fs.FileExists(filepath.Join(dir, headFile)) {
		return false
	}
	return fs.DirectoryExists(filepath.Join(dir, objectsDir)) || fs.FileExists(filepath.Join(dir, commonDirFile))
}

func resolveCommonDir(gitDir string) (string, error) {
	markerPath := filepath.Join(gitDir, commonDirFile)
	value, ok, err := fs.ReadMarker(markerPath)
	if err != nil {
		return "", errors.ErrRepoOpen(gitDir, errors.ErrFileSystem("read", markerPath, err))
	}
	if !ok {
		return gitDir, nil
	}

	commonDir := fs.ResolvePath(gitDir, value)
	if !fs.DirectoryExists(commonDir) {
		return "", errors.ErrRepoNotFound(commonDir, "commondir of "+gitDir+" is missing")
	}
	return commonDir, nil
}

func loadConfig(gitDir, commonDir string, overrides []gitconfig.Entry) (*gitconfig.Snapshot, error) {
	cfg, err := gitconfig.Load(filepath.Join(commonDir, configFile))
	if err != nil {
		return nil, errors.ErrRepoOpen(commonDir, err)
	}

	perWorktree, _, err := cfg.Boolean("extensions", "", "worktreeconfig")
	if err != nil {
		return nil, errors.ErrRepoOpen(commonDir, configError(err))
	}
	if perWorktree {
		wtCfg, err := gitconfig.Load(filepath.Join(gitDir, worktreeConfigFile))
		if err != nil {
			return nil, errors.ErrRepoOpen(gitDir, err)
		}
		cfg = cfg.Apply(wtCfg.Entries())
	}

	return cfg.Apply(overrides), nil
}

func resolveWorkDir(r *Repository, checkout string, opts Options) string {
	if opts.WorkDir != "" {
		if abs, err := filepath.Abs(opts.WorkDir); err == nil {
			return abs
		}
		return filepath.Clean(opts.WorkDir)
	}

	if r.gitDir != r.commonDir {
		if checkout != "" {
			return checkout
		}
		return linkedCheckout(r.gitDir)
	}

	if r.bare {
		return ""
	}
	if checkout != "" {
		return checkout
	}
	if wt, ok := r.config.String("core", "", "worktree"); ok && wt != "" {
		return fs.ResolvePath(r.gitDir, wt)
	}
	if filepath.Base(r.gitDir) == dotGit {
		return filepath.Dir(r.gitDir)
	}
	return ""
}

// linkedCheckout returns the checkout recorded in a worktree admin directory,
// or "" when it is not accessible.
func linkedCheckout(adminDir string) string {
	value, ok, err := fs.ReadMarker(filepath.Join(adminDir, gitDirFile))
	if err != nil || !ok || value == "" {
		return ""
	}
	checkout := filepath.Dir(fs.ResolvePath(adminDir, value))
	if !fs.IsAccessibleDir(checkout) {
		return ""
	}
	return checkout
}

func configError(err error) error {
	var valueErr *gitconfig.ValueError
	if errors.As(err, &valueErr) {
		return errors.ErrConfigInvalid(valueErr.Name(), valueErr.Raw, valueErr)
	}
	return err
}

// GitDir is the repository's private git directory. For a linked worktree
// this is its admin directory under <common>/worktrees.
func (r *Repository) GitDir() string { return r.gitDir }

// CommonDir is the git directory shared by all worktrees.
func (r *Repository) CommonDir() string { return r.commonDir }

// WorkDir returns the checkout directory, if the handle has one.
func (r *Repository) WorkDir() (string, bool) {
	return r.workDir, r.workDir != ""
}

// Config returns the resolved configuration snapshot.
func (r *Repository) Config() *gitconfig.Snapshot { return r.config }

// ObjectHash is the object format declared by the repository.
func (r *Repository) ObjectHash() gitconfig.ObjectHash { return r.objectHash }

// Options returns a copy of the options the repository was opened with.
func (r *Repository) Options() Options { return r.options.clone() }

// IsBare reports the resolved core.bare flag. A linked worktree of a bare
// repository is bare too, even though it has a checkout.
func (r *Repository) IsBare() bool { return r.bare }

// Kind classifies the handle as main, bare or linked.
func (r *Repository) Kind() Kind {
	switch {
	case r.gitDir != r.commonDir:
		return KindLinked
	case r.bare:
		return KindBare
	default:
		return KindMain
	}
}

// MainRepo reopens the common directory with this handle's options, minus
// any explicit work dir, which belongs to this checkout and not to the main
// one. For a main repository the result describes the same repository. Open
// errors are returned as is.
func (r *Repository) MainRepo() (*Repository, error) {
	opts := r.options.clone()
	opts.WorkDir = ""

	main, err := Open(r.commonDir, opts)
	if err != nil {
		return nil, errors.WithOperation(err, "main-repo")
	}
	return main, nil
}

// Worktree returns the checkout of this handle. It is absent for bare
// repositories and for git directories opened without a work tree.
func (r *Repository) Worktree() (*Worktree, bool) {
	if r.workDir == "" {
		return nil, false
	}
	return &Worktree{parent: r, path: r.workDir}, true
}

// InProgressOperation classifies the operation underway in this handle's git
// directory.
func (r *Repository) InProgressOperation() InProgress {
	return InProgressOperation(r.gitDir)
}
