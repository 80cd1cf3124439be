package git

// On-disk names inside a git directory.
const (
	dotGit             = ".git"
	gitFilePrefix      = "gitdir:"
	headFile           = "HEAD"
	objectsDir         = "objects"
	configFile         = "config"
	worktreeConfigFile = "config.worktree"
	commonDirFile      = "commondir"
	indexFile          = "index"

	// Linked worktree admin directories
	worktreesDir = "worktrees"
	gitDirFile   = "gitdir"
	lockedFile   = "locked"

	// Operation markers
	markerMergeHead      = "MERGE_HEAD"
	markerCherryPickHead = "CHERRY_PICK_HEAD"
	markerRevertHead     = "REVERT_HEAD"
	markerBisectLog      = "BISECT_LOG"
	markerRebaseMerge    = "rebase-merge"
	markerRebaseApply    = "rebase-apply"
	markerInteractive    = "interactive"
	markerApplying       = "applying"
	markerRebasing       = "rebasing"
	markerSequencerDir   = "sequencer"
	markerSequencerTodo  = "todo"
)
