package gitconfig

import (
	"fmt"
	"strings"
)

// ObjectHash identifies the object id algorithm a repository uses.
type ObjectHash int

const (
	SHA1 ObjectHash = iota + 1
	SHA256
)

func (h ObjectHash) String() string {
	switch h {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// Size is the length of a binary object id.
func (h ObjectHash) Size() int {
	switch h {
	case SHA256:
		return 32
	default:
		return 20
	}
}

// ParseObjectHash parses an extensions.objectformat value.
func ParseObjectHash(name string) (ObjectHash, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	}
	return 0, fmt.Errorf("unknown object format %q", name)
}

// FormatVersion reads core.repositoryformatversion. Absent means 0.
func (s *Snapshot) FormatVersion() (int64, error) {
	v, ok, err := s.Integer("core", "", "repositoryformatversion")
	if err != nil || !ok {
		return 0, err
	}
	return v, nil
}

// ObjectHash reads extensions.objectformat, defaulting to SHA1.
func (s *Snapshot) ObjectHash() (ObjectHash, error) {
	raw, ok := s.String("extensions", "", "objectformat")
	if !ok {
		return SHA1, nil
	}
	h, err := ParseObjectHash(raw)
	if err != nil {
		return 0, &ValueError{Section: "extensions", Key: "objectformat", Raw: raw, Err: err}
	}
	return h, nil
}
