package git

import (
	"math"
	"path/filepath"
	"time"

	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/gitconfig"
	"github.com/sqve/gitscope/internal/index"
	"github.com/sqve/gitscope/internal/logger"
)

// IndexPath is the location of this handle's index file.
func (r *Repository) IndexPath() string {
	return filepath.Join(r.gitDir, indexFile)
}

// IndexThreads derives the decode parallelism from index.threads. true means
// all available parallelism, false a single thread, a number that many
// threads. Numbers that do not fit a non-negative int become 1.
func (r *Repository) IndexThreads() (index.Threads, error) {
	enabled, present, err := r.config.Boolean("index", "", "threads")
	if !present {
		return index.Threads{}, nil
	}
	if err == nil {
		if enabled {
			return index.ThreadLimit(0), nil
		}
		return index.ThreadLimit(1), nil
	}

	var valueErr *gitconfig.ValueError
	if !errors.As(err, &valueErr) {
		return index.Threads{}, err
	}

	n, parseErr := gitconfig.ParseInt(valueErr.Raw)
	switch {
	case parseErr == nil:
		if n < 0 || n > math.MaxInt {
			return index.ThreadLimit(1), nil
		}
		return index.ThreadLimit(int(n)), nil
	case errors.Is(parseErr, gitconfig.ErrOutOfRange):
		return index.ThreadLimit(1), nil
	default:
		valueErr.Err = parseErr
		return index.Threads{}, errors.ErrConfigInvalid(valueErr.Name(), valueErr.Raw, valueErr)
	}
}

// OpenIndex reads and decodes a fresh copy of the index.
func (r *Repository) OpenIndex() (*index.File, error) {
	log := logger.WithComponent("git").WithOperation("open-index")
	start := time.Now()

	threads, err := r.IndexThreads()
	if err != nil {
		return nil, errors.WithOperation(err, "open-index")
	}

	file, err := index.Decode(r.IndexPath(), index.Options{
		ObjectHash:                    r.objectHash,
		Threads:                       threads,
		MinExtensionBlockForThreading: 0,
	})
	if err != nil {
		return nil, errors.WithOperation(err, "open-index")
	}

	log.Performance("open-index", time.Since(start), "entries", file.Len())
	return file, nil
}
