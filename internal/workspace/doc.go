// Package workspace manages the directories a build works in.
//
// A Manager owns the directory content repositories are cloned into, either
// ephemeral (a fresh temporary directory removed on Cleanup) or persistent
// (a fixed path kept between builds so later syncs only fetch).
//
// A Staging directory is a temporary sibling of the output directory. Pages
// are written there and the directory replaces the output only when the
// whole build succeeded, so a failed build never leaves a partial site.
package workspace
