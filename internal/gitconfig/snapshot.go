// Package gitconfig exposes a read-only view over a repository's config file.
//
// Files are decoded with go-git's config format package. Lookups follow git:
// section and key names are case-insensitive, subsection names are not, and
// the last occurrence of a key wins.
package gitconfig

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	format "github.com/go-git/go-git/v5/plumbing/format/config"

	"github.com/sqve/gitscope/internal/fs"
)

// Entry is one key/value assignment in file order.
type Entry struct {
	Section    string
	Subsection string
	Key        string
	Value      string
}

// Name returns the dotted key of the entry.
func (e Entry) Name() string {
	return JoinKey(e.Section, e.Subsection, e.Key)
}

// Snapshot is an immutable list of config entries.
type Snapshot struct {
	path    string
	entries []Entry
}

// Empty returns a snapshot with no entries.
func Empty() *Snapshot {
	return &Snapshot{}
}

// Load decodes the config file at path. A missing file yields an empty
// snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) // nolint:gosec // Reading repository config
	if err != nil {
		if fs.IsNotExist(err) {
			return &Snapshot{path: path}, nil
		}
		return nil, err
	}

	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// Parse decodes config text from r.
func Parse(r io.Reader) (*Snapshot, error) {
	raw := format.New()
	if err := format.NewDecoder(r).Decode(raw); err != nil {
		return nil, err
	}
	return fromFormat(raw), nil
}

func fromFormat(raw *format.Config) *Snapshot {
	s := &Snapshot{}
	for _, section := range raw.Sections {
		for _, opt := range section.Options {
			s.entries = append(s.entries, Entry{Section: section.Name, Key: opt.Key, Value: opt.Value})
		}
		for _, sub := range section.Subsections {
			for _, opt := range sub.Options {
				s.entries = append(s.entries, Entry{
					Section:    section.Name,
					Subsection: sub.Name,
					Key:        opt.Key,
					Value:      opt.Value,
				})
			}
		}
	}
	return s
}

// Path is the file the snapshot was loaded from, empty for parsed text.
func (s *Snapshot) Path() string { return s.path }

// Entries returns a copy of all entries in file order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Apply returns a new snapshot with overrides appended after the file's own
// entries, so they take precedence.
func (s *Snapshot) Apply(overrides []Entry) *Snapshot {
	if len(overrides) == 0 {
		return s
	}
	entries := make([]Entry, 0, len(s.entries)+len(overrides))
	entries = append(entries, s.entries...)
	entries = append(entries, overrides...)
	return &Snapshot{path: s.path, entries: entries}
}

// Lookup returns the last raw value for the key.
func (s *Snapshot) Lookup(section, subsection, key string) (string, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if strings.EqualFold(e.Section, section) && e.Subsection == subsection && strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}
	return "", false
}

// String returns the raw text of the key.
func (s *Snapshot) String(section, subsection, key string) (string, bool) {
	return s.Lookup(section, subsection, key)
}

// Value returns the interpreted value of the key.
func (s *Snapshot) Value(section, subsection, key string) (Value, bool) {
	raw, ok := s.Lookup(section, subsection, key)
	if !ok {
		return Value{}, false
	}
	return Interpret(raw), true
}

// Boolean reads the key as a boolean. A present value that is not a boolean
// returns a *ValueError carrying the raw text.
func (s *Snapshot) Boolean(section, subsection, key string) (value, present bool, err error) {
	raw, ok := s.Lookup(section, subsection, key)
	if !ok {
		return false, false, nil
	}
	b, err := ParseBool(raw)
	if err != nil {
		return false, true, &ValueError{Section: section, Subsection: subsection, Key: key, Raw: raw, Err: err}
	}
	return b, true, nil
}

// Integer reads the key as an integer with optional unit suffix.
func (s *Snapshot) Integer(section, subsection, key string) (value int64, present bool, err error) {
	raw, ok := s.Lookup(section, subsection, key)
	if !ok {
		return 0, false, nil
	}
	n, err := ParseInt(raw)
	if err != nil {
		return 0, true, &ValueError{Section: section, Subsection: subsection, Key: key, Raw: raw, Err: err}
	}
	return n, true, nil
}

// SplitKey splits a dotted key into its parts. The subsection is everything
// between the first and the last dot.
func SplitKey(name string) (section, subsection, key string, err error) {
	first := strings.Index(name, ".")
	last := strings.LastIndex(name, ".")
	if first <= 0 || last == len(name)-1 {
		return "", "", "", fmt.Errorf("invalid config key %q", name)
	}
	section = name[:first]
	key = name[last+1:]
	if first != last {
		subsection = name[first+1 : last]
	}
	return section, subsection, key, nil
}

// JoinKey is the inverse of SplitKey.
func JoinKey(section, subsection, key string) string {
	if subsection == "" {
		return section + "." + key
	}
	return section + "." + subsection + "." + key
}
