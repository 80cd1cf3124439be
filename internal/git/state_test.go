package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/gitscope/internal/testutil"
	testgit "github.com/sqve/gitscope/internal/testutil/git"
)

func TestInProgressOperation(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		dirs  []string
		want  InProgress
	}{
		{name: "nothing", want: None},
		{name: "cherry-pick only", files: []string{"CHERRY_PICK_HEAD"}, want: CherryPick},
		{name: "revert only", files: []string{"REVERT_HEAD"}, want: Revert},
		{name: "merge", files: []string{"MERGE_HEAD"}, want: Merge},
		{name: "bisect", files: []string{"BISECT_LOG"}, want: Bisect},
		{
			name:  "interactive rebase beats merge head",
			files: []string{"rebase-merge/interactive", "MERGE_HEAD"},
			want:  RebaseInteractive,
		},
		{name: "merge backend rebase", dirs: []string{"rebase-merge"}, want: Rebase},
		{
			name:  "rebase beats cherry-pick",
			files: []string{"CHERRY_PICK_HEAD"},
			dirs:  []string{"rebase-merge"},
			want:  Rebase,
		},
		{name: "am", files: []string{"rebase-apply/applying"}, want: ApplyMailbox},
		{name: "apply backend rebase", files: []string{"rebase-apply/rebasing"}, want: Rebase},
		{name: "ambiguous apply", dirs: []string{"rebase-apply"}, want: ApplyMailboxRebase},
		{
			name:  "cherry-pick sequence",
			files: []string{"CHERRY_PICK_HEAD", "sequencer/todo"},
			want:  CherryPickSequence,
		},
		{
			name:  "revert sequence",
			files: []string{"REVERT_HEAD", "sequencer/todo"},
			want:  RevertSequence,
		},
		{
			name:  "cherry-pick beats revert",
			files: []string{"CHERRY_PICK_HEAD", "REVERT_HEAD"},
			want:  CherryPick,
		},
		{
			name:  "revert beats merge",
			files: []string{"REVERT_HEAD", "MERGE_HEAD"},
			want:  Revert,
		},
		{
			name:  "merge beats bisect",
			files: []string{"MERGE_HEAD", "BISECT_LOG"},
			want:  Merge,
		},
		{name: "sequencer alone", files: []string{"sequencer/todo"}, want: None},
		{name: "rebase-merge as a file", files: []string{"rebase-merge"}, want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := testgit.NewTestRepo(t)
			for _, dir := range tt.dirs {
				fixture.MarkerDir(fixture.GitDir, dir)
			}
			for _, file := range tt.files {
				fixture.WriteMarker(fixture.GitDir, file, "0123456789abcdef\n")
			}

			assert.Equal(t, tt.want, InProgressOperation(fixture.GitDir))

			repo, err := Open(fixture.Path, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, repo.InProgressOperation())
		})
	}
}

func TestInProgressOperationIsNotCached(t *testing.T) {
	fixture := testgit.NewTestRepo(t)
	repo, err := Open(fixture.Path, Options{})
	require.NoError(t, err)

	fixture.MarkerDir(fixture.GitDir, "rebase-merge")
	fixture.WriteMarker(fixture.GitDir, "rebase-merge/interactive", "")
	fixture.WriteMarker(fixture.GitDir, "MERGE_HEAD", "abc\n")
	assert.Equal(t, RebaseInteractive, repo.InProgressOperation())

	fixture.RemoveMarker(fixture.GitDir, "rebase-merge")
	assert.Equal(t, Merge, repo.InProgressOperation())

	fixture.RemoveMarker(fixture.GitDir, "MERGE_HEAD")
	assert.Equal(t, None, repo.InProgressOperation())
}

func TestInProgressOperationLinkedWorktree(t *testing.T) {
	fixture := testgit.NewTestRepo(t)
	checkout := fixture.AddLinkedWorktree("feature")
	fixture.WriteMarker(fixture.AdminDir("feature"), "REVERT_HEAD", "abc\n")

	linked, err := Open(checkout, Options{})
	require.NoError(t, err)
	assert.Equal(t, Revert, linked.InProgressOperation())

	main, err := linked.MainRepo()
	require.NoError(t, err)
	assert.Equal(t, None, main.InProgressOperation())
}

func TestInProgressOperationMissingDir(t *testing.T) {
	assert.Equal(t, None, InProgressOperation(filepath.Join(testutil.TempDir(t), "gone")))
}

func TestInProgressText(t *testing.T) {
	for state := range inProgressNames {
		text, err := state.MarshalText()
		require.NoError(t, err)

		var parsed InProgress
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, state, parsed)
	}

	var parsed InProgress
	assert.Error(t, parsed.UnmarshalText([]byte("juggling")))

	assert.Equal(t, "cherry-pick-sequence", CherryPickSequence.String())
	assert.Equal(t, "InProgress(99)", InProgress(99).String())
	assert.False(t, None.Active())
	assert.True(t, Bisect.Active())
}

func TestStateMarkers(t *testing.T) {
	files, dirs := StateMarkers()
	assert.Contains(t, files, "MERGE_HEAD")
	assert.Contains(t, dirs, "rebase-merge")
	assert.Contains(t, dirs, "sequencer")
}
