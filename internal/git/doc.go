// Package git keeps a local checkout of a remote content repository in
// sync. The first Sync clones; later calls fetch and hard-reset the worktree
// to the remote branch so a rebuild always sees exactly what was pushed.
package git
