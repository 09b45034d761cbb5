// Package content discovers Markdown files in the content store, decodes
// their metadata and keeps the per-build post index.
//
// An Index is built once per build by Load and is read-only afterwards, so it
// can be shared by concurrent renderers without locking.
package content
