package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sqve/gitscope/internal/config"
	"github.com/sqve/gitscope/internal/git"
	"github.com/sqve/gitscope/internal/report"
	"github.com/sqve/gitscope/internal/styles"
)

// Indicator legend (color / plain):
// Current: ● / *
// Lock: locked / [locked]
// Missing checkout: ✗ missing / [missing]
// Operation: yellow name / [name]
// Verbose prefix: ↳ / >

const (
	iconCurrent = "●"
	iconMissing = "✗"
)

const (
	asciiCurrent = "*"
	asciiLock    = "[locked]"
	asciiMissing = "[missing]"
)

// CurrentMarker returns the marker for current worktree
func CurrentMarker(isCurrent bool) string {
	if !isCurrent {
		return " "
	}
	if config.IsPlain() {
		return asciiCurrent
	}
	return styles.Render(&styles.Success, iconCurrent)
}

// Lock returns the lock indicator
func Lock(isLocked bool) string {
	if !isLocked {
		return ""
	}
	if config.IsPlain() {
		return asciiLock
	}
	return styles.Render(&styles.Warning, "locked")
}

// Missing returns the indicator for a worktree whose checkout is gone.
func Missing(isAvailable bool) string {
	if isAvailable {
		return ""
	}
	if config.IsPlain() {
		return asciiMissing
	}
	return styles.Render(&styles.Error, iconMissing+" missing")
}

// State returns the in-progress operation indicator, empty when idle.
func State(state git.InProgress) string {
	if !state.Active() {
		return ""
	}
	if config.IsPlain() {
		return "[" + state.String() + "]"
	}
	return styles.Render(&styles.Warning, state.String())
}

// SubItemPrefix returns the prefix for verbose sub-items
func SubItemPrefix() string {
	if config.IsPlain() {
		return ">"
	}
	return "↳"
}

// WorktreeRow formats a single worktree row.
// Format: marker name indicators
func WorktreeRow(wt report.Worktree, namePadWidth int) string {
	name := wt.Name
	nameLen := utf8.RuneCountInString(name)
	if namePadWidth > 0 && nameLen < namePadWidth {
		name += strings.Repeat(" ", namePadWidth-nameLen)
	}

	parts := []string{CurrentMarker(wt.Current), styles.Render(&styles.Worktree, name)}

	// A bare main repository has no checkout to miss.
	available := wt.Available || (wt.Main && wt.Path == "")

	var indicators []string
	for _, indicator := range []string{Lock(wt.Locked), Missing(available), State(wt.State)} {
		if indicator != "" {
			indicators = append(indicators, indicator)
		}
	}
	if len(indicators) > 0 {
		parts = append(parts, strings.Join(indicators, " "))
	}

	return strings.TrimRight(strings.Join(parts, " "), " ")
}

// VerboseSubItems returns the verbose sub-items for a worktree
func VerboseSubItems(wt report.Worktree) []string {
	prefix := SubItemPrefix()
	var items []string

	if wt.Path != "" {
		items = append(items, fmt.Sprintf("    %s path: %s", prefix, styles.RenderPath(wt.Path)))
	}
	items = append(items, fmt.Sprintf("    %s git dir: %s", prefix, styles.RenderPath(wt.GitDir)))

	if wt.Locked && wt.LockReason != "" {
		items = append(items, fmt.Sprintf("    %s lock reason: %s", prefix, wt.LockReason))
	}

	return items
}

// WorktreeList renders rows with aligned names.
func WorktreeList(rows []report.Worktree, verbose bool) string {
	width := 0
	for _, wt := range rows {
		width = max(width, utf8.RuneCountInString(wt.Name))
	}

	var b strings.Builder
	for _, wt := range rows {
		b.WriteString(WorktreeRow(wt, width))
		b.WriteByte('\n')
		if verbose {
			for _, item := range VerboseSubItems(wt) {
				b.WriteString(item)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// StateLine renders the operation in progress, or "none".
func StateLine(state git.InProgress) string {
	if !state.Active() {
		return styles.Render(&styles.Dimmed, state.String())
	}
	return styles.Render(&styles.Warning, state.String())
}

// RepositorySummary renders the info view as aligned key/value lines.
func RepositorySummary(r report.Repository) string {
	workDir := r.WorkDir
	if workDir == "" {
		workDir = "(none)"
	} else {
		workDir = styles.RenderPath(workDir)
	}

	return keyValues([][2]string{
		{"git dir", styles.RenderPath(r.GitDir)},
		{"common dir", styles.RenderPath(r.CommonDir)},
		{"work dir", workDir},
		{"kind", r.Kind},
		{"bare", fmt.Sprint(r.Bare)},
		{"object format", r.ObjectFormat},
		{"state", StateLine(r.State)},
		{"index threads", r.IndexThreads},
		{"worktrees", fmt.Sprint(r.Worktrees)},
	})
}

// IndexSummary renders the index view. Conflicted paths follow the summary.
func IndexSummary(idx report.Index) string {
	var b strings.Builder
	b.WriteString(keyValues([][2]string{
		{"path", styles.RenderPath(idx.Path)},
		{"version", fmt.Sprint(idx.Version)},
		{"entries", fmt.Sprint(idx.Entries)},
		{"threads", idx.Threads},
		{"conflicts", fmt.Sprint(len(idx.Conflicts))},
	}))

	prefix := SubItemPrefix()
	for _, path := range idx.Conflicts {
		fmt.Fprintf(&b, "    %s %s\n", prefix, styles.Render(&styles.Error, path))
	}

	for _, e := range idx.Files {
		fmt.Fprintf(&b, "%s %s %d\t%s\n", e.Mode, e.Hash, e.Stage, e.Name)
	}
	return b.String()
}

func keyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}

	var b strings.Builder
	for _, p := range pairs {
		label := p[0] + ":" + strings.Repeat(" ", width-len(p[0]))
		fmt.Fprintf(&b, "%s %s\n", styles.Render(&styles.Dimmed, label), p[1])
	}
	return b.String()
}
