// Package watch reports changes to the operation in progress in a git
// directory.
package watch

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/git"
	"github.com/sqve/gitscope/internal/logger"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 150 * time.Millisecond

type Options struct {
	// Debounce is how long the directory must be quiet before it is
	// classified again.
	Debounce time.Duration
}

// Change is a new classification of the watched directory.
type Change struct {
	Previous git.InProgress
	State    git.InProgress
	At       time.Time
}

// Watcher classifies a git directory each time its operation markers settle.
type Watcher struct {
	Dir string

	debounce time.Duration
	files    []string
	dirs     []string
	watcher  *fsnotify.Watcher
}

// New creates a watcher for the git directory dir. Nothing is watched until
// Run is called.
func New(dir string, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.ErrFileSystem("watch", dir, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	files, dirs := git.StateMarkers()
	return &Watcher{
		Dir:      dir,
		debounce: opts.Debounce,
		files:    files,
		dirs:     dirs,
		watcher:  fw,
	}, nil
}

// Run reports the current classification and then every change to it until
// ctx is done. fn is called from Run's goroutine. Run closes the watcher
// before returning.
func (w *Watcher) Run(ctx context.Context, fn func(Change)) error {
	log := logger.WithComponent("watch")
	defer func() { _ = w.watcher.Close() }()

	if err := w.watcher.Add(w.Dir); err != nil {
		return errors.ErrFileSystem("watch", w.Dir, err)
	}
	for _, d := range w.dirs {
		w.addMarkerDir(filepath.Join(w.Dir, d))
	}

	current := git.InProgressOperation(w.Dir)
	fn(Change{Previous: current, State: current, At: time.Now()})

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) && slices.Contains(w.dirs, filepath.Base(event.Name)) {
				w.addMarkerDir(event.Name)
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			next := git.InProgressOperation(w.Dir)
			if next == current {
				continue
			}
			log.Debug("operation changed", "dir", w.Dir, "from", current.String(), "to", next.String())
			fn(Change{Previous: current, State: next, At: time.Now()})
			current = next

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("watch error", "dir", w.Dir, "error", err)
		}
	}
}

// addMarkerDir watches a marker directory if it exists. fsnotify drops the
// watch by itself when the directory is removed.
func (w *Watcher) addMarkerDir(path string) {
	if err := w.watcher.Add(path); err != nil {
		logger.WithComponent("watch").Debug("marker dir not watched", "path", path, "error", err)
	}
}

// relevant reports whether a path under Dir can affect classification.
func (w *Watcher) relevant(path string) bool {
	rel, err := filepath.Rel(w.Dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	top, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return slices.Contains(w.files, top) || slices.Contains(w.dirs, top)
}
