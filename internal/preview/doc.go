// Package preview keeps a served site current: a single rebuild worker fed by
// a debounced filesystem watcher and an optional interval scheduler.
package preview
