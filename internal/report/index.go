package report

import (
	"github.com/sqve/gitscope/internal/git"
)

// Index summarises a decoded index file.
type Index struct {
	Path      string       `json:"path" yaml:"path"`
	Version   uint32       `json:"version" yaml:"version"`
	Entries   int          `json:"entries" yaml:"entries"`
	Threads   string       `json:"threads" yaml:"threads"`
	Conflicts []string     `json:"conflicts" yaml:"conflicts"`
	Files     []IndexEntry `json:"files,omitempty" yaml:"files,omitempty"`
}

// IndexEntry is one staged path.
type IndexEntry struct {
	Name  string `json:"name" yaml:"name"`
	Mode  string `json:"mode" yaml:"mode"`
	Hash  string `json:"hash" yaml:"hash"`
	Stage int    `json:"stage" yaml:"stage"`
	Size  uint32 `json:"size" yaml:"size"`
}

// DescribeIndex reads repo's index. Entries are listed only when files is set.
func DescribeIndex(repo *git.Repository, files bool) (Index, error) {
	file, err := repo.OpenIndex()
	if err != nil {
		return Index{}, err
	}

	out := Index{
		Path:      file.Path,
		Version:   file.Version,
		Entries:   file.Len(),
		Threads:   file.Threads.String(),
		Conflicts: file.Conflicts(),
	}
	if files {
		out.Files = make([]IndexEntry, 0, file.Len())
		for _, e := range file.Entries {
			out.Files = append(out.Files, IndexEntry{
				Name:  e.Name,
				Mode:  e.Mode.String(),
				Hash:  e.Hash.String(),
				Stage: int(e.Stage),
				Size:  e.Size,
			})
		}
	}
	return out, nil
}
