package index

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	format "github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/gitscope/internal/errors"
	"github.com/sqve/gitscope/internal/gitconfig"
)

func entry(name string, stage format.Stage) *format.Entry {
	return &format.Entry{
		Hash:       plumbing.NewHash("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"),
		Name:       name,
		Mode:       filemode.Regular,
		Stage:      stage,
		CreatedAt:  time.Unix(1700000000, 0),
		ModifiedAt: time.Unix(1700000000, 0),
	}
}

func writeIndex(t *testing.T, entries ...*format.Entry) string {
	t.Helper()

	var buf bytes.Buffer
	idx := &format.Index{Version: 2, Entries: entries}
	require.NoError(t, format.NewEncoder(&buf).Encode(idx))

	path := filepath.Join(t.TempDir(), "index")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDecode(t *testing.T) {
	t.Run("decodes entries", func(t *testing.T) {
		path := writeIndex(t, entry("README.md", 0), entry("main.go", 0))

		file, err := Decode(path, Options{Threads: ThreadLimit(1)})
		require.NoError(t, err)

		assert.Equal(t, uint32(2), file.Version)
		assert.Equal(t, 2, file.Len())
		assert.Equal(t, gitconfig.SHA1, file.ObjectHash)
		assert.Empty(t, file.Conflicts())

		e, ok, err := file.Entry("main.go")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "main.go", e.Name)

		e, ok, err = file.Entry("missing.go")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, e)
	})

	t.Run("records thread policy", func(t *testing.T) {
		path := writeIndex(t, entry("a", 0))

		file, err := Decode(path, Options{Threads: ThreadLimit(3)})
		require.NoError(t, err)

		limit, ok := file.Threads.Limit()
		assert.True(t, ok)
		assert.Equal(t, 3, limit)
	})

	t.Run("conflicts are the same for any worker count", func(t *testing.T) {
		path := writeIndex(t,
			entry("a.txt", 0),
			entry("b.txt", 1), entry("b.txt", 2), entry("b.txt", 3),
			entry("c.txt", 0),
			entry("d.txt", 2), entry("d.txt", 3),
			entry("e.txt", 0),
		)

		for _, threads := range []Threads{{}, ThreadLimit(0), ThreadLimit(1), ThreadLimit(2), ThreadLimit(16)} {
			file, err := Decode(path, Options{Threads: threads})
			require.NoError(t, err)
			assert.Equal(t, []string{"b.txt", "d.txt"}, file.Conflicts(), "threads=%s", threads)
		}

		file, err := Decode(path, Options{Threads: ThreadLimit(4), MinExtensionBlockForThreading: 1 << 40})
		require.NoError(t, err)
		assert.Equal(t, []string{"b.txt", "d.txt"}, file.Conflicts())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Decode(filepath.Join(t.TempDir(), "index"), Options{})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeIndexNotFound))
	})

	t.Run("garbage is corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index")
		require.NoError(t, os.WriteFile(path, []byte("not an index at all"), 0o644))

		_, err := Decode(path, Options{})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeIndexCorrupt))
	})

	t.Run("truncated is corrupt", func(t *testing.T) {
		full := writeIndex(t, entry("a", 0), entry("b", 0))
		data, err := os.ReadFile(full)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "index")
		require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))

		_, err = Decode(path, Options{})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeIndexCorrupt))
	})

	t.Run("unknown version is unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("DIRC")
		require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(99)))
		require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0)))

		path := filepath.Join(t.TempDir(), "index")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		_, err := Decode(path, Options{})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeIndexUnsupported))
	})

	t.Run("sha256 repositories are unsupported", func(t *testing.T) {
		path := writeIndex(t, entry("a", 0))

		_, err := Decode(path, Options{ObjectHash: gitconfig.SHA256})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeIndexUnsupported))
	})
}

func TestDedupeSorted(t *testing.T) {
	assert.Nil(t, dedupeSorted(nil))
	assert.Equal(t, []string{"a", "b"}, dedupeSorted([]string{"b", "a", "b", "a"}))
}
