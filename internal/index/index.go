// Package index reads a repository's binary index (staging area) file.
package index

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"os"
	"sort"
	"time"

	format "github.com/go-git/go-git/v5/plumbing/format/index"
	"golang.org/x/sync/errgroup"

	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/fs"
	"github.com/sqve/gitscope/internal/gitconfig"
	"github.com/sqve/gitscope/internal/logger"
)

// Options controls how an index file is decoded.
type Options struct {
	ObjectHash gitconfig.ObjectHash
	Threads    Threads
	// MinExtensionBlockForThreading is the smallest index size in bytes at
	// which entry scanning is split across workers. 0 always splits.
	MinExtensionBlockForThreading int64
}

// File is a decoded index. It is a point-in-time copy of the file on disk.
type File struct {
	Path       string
	ObjectHash gitconfig.ObjectHash
	Threads    Threads
	Version    uint32
	Entries    []*format.Entry

	raw       *format.Index
	conflicts []string
}

// Raw returns the underlying go-git index.
func (f *File) Raw() *format.Index { return f.raw }

// Len is the number of entries, counting every conflict stage.
func (f *File) Len() int { return len(f.Entries) }

// Conflicts lists paths with unmerged entries, sorted.
func (f *File) Conflicts() []string {
	out := make([]string, len(f.conflicts))
	copy(out, f.conflicts)
	return out
}

// Entry returns the first entry for name. A missing name is reported through
// ok; any other lookup failure is returned.
func (f *File) Entry(name string) (*format.Entry, bool, error) {
	e, err := f.raw.Entry(name)
	switch {
	case err == nil:
		return e, true, nil
	case stderrors.Is(err, format.ErrEntryNotFound):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// Decode reads and decodes the index at path.
func Decode(path string, opts Options) (*File, error) {
	log := logger.WithComponent("index")
	start := time.Now()

	if opts.ObjectHash == 0 {
		opts.ObjectHash = gitconfig.SHA1
	}

	f, err := os.Open(path) // nolint:gosec // Reading repository index
	if err != nil {
		if fs.IsNotExist(err) {
			return nil, errors.ErrIndexNotFound(path, err)
		}
		return nil, errors.ErrFileSystem("open", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.ErrFileSystem("stat", path, err)
	}

	if opts.ObjectHash != gitconfig.SHA1 {
		return nil, errors.ErrIndexUnsupported(path, "object format "+opts.ObjectHash.String(), nil)
	}

	raw := &format.Index{}
	if err := format.NewDecoder(bufio.NewReader(f)).Decode(raw); err != nil {
		return nil, classifyDecodeError(path, err)
	}

	file := &File{
		Path:       path,
		ObjectHash: opts.ObjectHash,
		Threads:    opts.Threads,
		Version:    raw.Version,
		Entries:    raw.Entries,
		raw:        raw,
	}
	file.conflicts = scanConflicts(raw.Entries, info.Size(), opts)

	log.Debug("decoded index",
		"path", path,
		"version", raw.Version,
		"entries", len(raw.Entries),
		"bytes", info.Size(),
		"threads", opts.Threads.String())
	log.Performance("decode-index", time.Since(start), "path", path)

	return file, nil
}

func classifyDecodeError(path string, err error) error {
	switch {
	case stderrors.Is(err, format.ErrUnsupportedVersion):
		return errors.ErrIndexUnsupported(path, "index version", err)
	case stderrors.Is(err, format.ErrMalformedSignature),
		stderrors.Is(err, format.ErrInvalidChecksum),
		stderrors.Is(err, format.ErrUnknownExtension),
		stderrors.Is(err, io.EOF),
		stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.ErrIndexCorrupt(path, err)
	default:
		var pathErr *os.PathError
		if stderrors.As(err, &pathErr) {
			return errors.ErrFileSystem("read", path, err)
		}
		return errors.ErrIndexCorrupt(path, err)
	}
}

// scanConflicts collects unmerged paths. Entries are split into one chunk per
// worker once the index is at least MinExtensionBlockForThreading bytes.
func scanConflicts(entries []*format.Entry, size int64, opts Options) []string {
	workers := opts.Threads.Workers()
	if workers <= 1 || size < opts.MinExtensionBlockForThreading || len(entries) < 2 {
		return collectConflicts(entries)
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	chunk := (len(entries) + workers - 1) / workers
	results := make([][]string, workers)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := 0; i < workers; i++ {
		lo := i * chunk
		if lo >= len(entries) {
			break
		}
		hi := min(lo+chunk, len(entries))
		i := i
		g.Go(func() error {
			results[i] = collectConflicts(entries[lo:hi])
			return nil
		})
	}
	_ = g.Wait()

	var conflicts []string
	for _, r := range results {
		conflicts = append(conflicts, r...)
	}
	return dedupeSorted(conflicts)
}

func collectConflicts(entries []*format.Entry) []string {
	var out []string
	for _, e := range entries {
		// Stage 0 is a merged entry; 1 to 3 are conflict sides.
		if e.Stage != 0 {
			out = append(out, e.Name)
		}
	}
	return dedupeSorted(out)
}

func dedupeSorted(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	sort.Strings(paths)
	out := paths[:1]
	for _, p := range paths[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
