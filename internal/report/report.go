// Package report turns repository handles into plain values for output.
package report

import (
	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/git"
	"github.com/sqve/gitscope/internal/logger"
)

// Repository summarises an opened repository.
type Repository struct {
	GitDir       string         `json:"git_dir" yaml:"git_dir"`
	CommonDir    string         `json:"common_dir" yaml:"common_dir"`
	WorkDir      string         `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`
	Kind         string         `json:"kind" yaml:"kind"`
	Bare         bool           `json:"bare" yaml:"bare"`
	ObjectFormat string         `json:"object_format" yaml:"object_format"`
	State        git.InProgress `json:"state" yaml:"state"`
	IndexThreads string         `json:"index_threads" yaml:"index_threads"`
	Worktrees    int            `json:"worktrees" yaml:"worktrees"`
}

// Worktree is one row of the worktree listing.
type Worktree struct {
	Name       string         `json:"name" yaml:"name"`
	Main       bool           `json:"main" yaml:"main"`
	GitDir     string         `json:"git_dir" yaml:"git_dir"`
	Path       string         `json:"path,omitempty" yaml:"path,omitempty"`
	Available  bool           `json:"available" yaml:"available"`
	Locked     bool           `json:"locked" yaml:"locked"`
	LockReason string         `json:"lock_reason,omitempty" yaml:"lock_reason,omitempty"`
	State      git.InProgress `json:"state" yaml:"state"`
	Current    bool           `json:"current" yaml:"current"`
}

// Describe summarises repo. A malformed index.threads value is reported as an
// error.
func Describe(repo *git.Repository) (Repository, error) {
	threads, err := repo.IndexThreads()
	if err != nil {
		return Repository{}, err
	}

	proxies, err := repo.Worktrees()
	if err != nil {
		return Repository{}, err
	}

	workDir, _ := repo.WorkDir()
	return Repository{
		GitDir:       repo.GitDir(),
		CommonDir:    repo.CommonDir(),
		WorkDir:      workDir,
		Kind:         repo.Kind().String(),
		Bare:         repo.IsBare(),
		ObjectFormat: repo.ObjectHash().String(),
		State:        repo.InProgressOperation(),
		IndexThreads: threads.String(),
		Worktrees:    len(proxies),
	}, nil
}

// Worktrees lists the main worktree followed by every linked worktree in
// name order. The entry matching repo's own git dir is marked current.
// Linked worktrees whose checkout is gone are listed as unavailable.
func Worktrees(repo *git.Repository) ([]Worktree, error) {
	log := logger.WithComponent("report")

	main, err := repo.MainRepo()
	if err != nil {
		return nil, err
	}

	proxies, err := main.Worktrees()
	if err != nil {
		return nil, err
	}

	rows := make([]Worktree, 0, len(proxies)+1)

	mainRow := Worktree{
		Name:    "(main)",
		Main:    true,
		GitDir:  main.GitDir(),
		State:   main.InProgressOperation(),
		Current: repo.GitDir() == main.GitDir(),
	}
	if wt, ok := main.Worktree(); ok {
		mainRow.Path = wt.Path()
		mainRow.Available = true
	}
	rows = append(rows, mainRow)

	for _, p := range proxies {
		row := Worktree{
			Name:    p.Name(),
			GitDir:  p.GitDir(),
			Locked:  p.IsLocked(),
			State:   git.InProgressOperation(p.GitDir()),
			Current: repo.GitDir() == p.GitDir(),
		}
		row.LockReason, _ = p.LockReason()

		if base, err := p.Base(); err == nil {
			row.Path = base
		} else if !errors.IsCode(err, errors.ErrCodeWorktreeUnavailable) {
			return nil, err
		}

		if _, err := p.Resolve(); err == nil {
			row.Available = true
		} else {
			log.Debug("worktree unavailable", "name", p.Name(), "error", err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}
