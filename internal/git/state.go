package git

import (
	"fmt"
	"path/filepath"

	"github.com/sqve/gitscope/internal/fs"
)

// InProgress is the operation a git directory is in the middle of.
type InProgress int

const (
	None InProgress = iota
	Merge
	Revert
	RevertSequence
	CherryPick
	CherryPickSequence
	Bisect
	Rebase
	RebaseInteractive
	ApplyMailbox
	ApplyMailboxRebase
)

var inProgressNames = map[InProgress]string{
	None:               "none",
	Merge:              "merge",
	Revert:             "revert",
	RevertSequence:     "revert-sequence",
	CherryPick:         "cherry-pick",
	CherryPickSequence: "cherry-pick-sequence",
	Bisect:             "bisect",
	Rebase:             "rebase",
	RebaseInteractive:  "rebase-interactive",
	ApplyMailbox:       "apply-mailbox",
	ApplyMailboxRebase: "apply-mailbox-rebase",
}

func (s InProgress) String() string {
	if name, ok := inProgressNames[s]; ok {
		return name
	}
	return fmt.Sprintf("InProgress(%d)", int(s))
}

// Active reports whether any operation is underway.
func (s InProgress) Active() bool { return s != None }

func (s InProgress) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *InProgress) UnmarshalText(text []byte) error {
	for state, name := range inProgressNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown operation %q", text)
}

type stateRule struct {
	matches func(dir string) bool
	state   InProgress
}

// Rules are checked in order and the first match wins. Rebase markers outrank
// MERGE_HEAD and CHERRY_PICK_HEAD, which a rebase may leave behind.
var stateRules = []stateRule{
	{all(isDir(markerRebaseMerge), exists(markerRebaseMerge, markerInteractive)), RebaseInteractive},
	{isDir(markerRebaseMerge), Rebase},
	{all(isDir(markerRebaseApply), exists(markerRebaseApply, markerApplying)), ApplyMailbox},
	{all(isDir(markerRebaseApply), exists(markerRebaseApply, markerRebasing)), Rebase},
	{isDir(markerRebaseApply), ApplyMailboxRebase},
	{all(exists(markerCherryPickHead), exists(markerSequencerDir, markerSequencerTodo)), CherryPickSequence},
	{exists(markerCherryPickHead), CherryPick},
	{all(exists(markerRevertHead), exists(markerSequencerDir, markerSequencerTodo)), RevertSequence},
	{exists(markerRevertHead), Revert},
	{exists(markerMergeHead), Merge},
	{exists(markerBisectLog), Bisect},
}

// InProgressOperation classifies the operation underway in the git directory
// dir from its marker files. Every call reads the filesystem again.
func InProgressOperation(dir string) InProgress {
	for _, rule := range stateRules {
		if rule.matches(dir) {
			return rule.state
		}
	}
	return None
}

func exists(parts ...string) func(string) bool {
	return func(dir string) bool {
		return fs.PathExists(filepath.Join(append([]string{dir}, parts...)...))
	}
}

func isDir(name string) func(string) bool {
	return func(dir string) bool {
		return fs.DirectoryExists(filepath.Join(dir, name))
	}
}

func all(preds ...func(string) bool) func(string) bool {
	return func(dir string) bool {
		for _, p := range preds {
			if !p(dir) {
				return false
			}
		}
		return true
	}
}

// StateMarkers lists the entries directly under a git directory that
// InProgressOperation looks at. The directories among them may hold further
// markers.
func StateMarkers() (files, dirs []string) {
	files = []string{markerMergeHead, markerCherryPickHead, markerRevertHead, markerBisectLog}
	dirs = []string{markerRebaseMerge, markerRebaseApply, markerSequencerDir}
	return files, dirs
}
