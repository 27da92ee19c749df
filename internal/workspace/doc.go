// Package workspace manages the staging directory of a splice run and the file
// relocation helpers around it.
//
// Ephemeral mode creates a uniquely named directory (e.g. docsplice-<uuid>) under a
// base directory and removes it on Cleanup, so concurrent or interrupted runs never
// share state.
//
// Fixed mode uses a configured directory path. Create empties it first and Cleanup
// empties it again, leaving the directory itself in place.
package workspace
