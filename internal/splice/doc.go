// Package splice merges generated API-reference pages into a themed shell document.
//
// A run copies the source bundle into a fresh staging directory, drops the bundle
// index, rewrites every remaining page as the shell document with its placeholder
// region replaced by the page's cleaned body, and publishes the staged pages into the
// output directory. Nothing is published and the source bundle is left untouched
// unless every page was transformed successfully.
//
// Cleaning and merging are delegated to a Strategy. Two implementations exist and
// produce the same document for well-formed input:
//
//   - Structural parses pages into a node tree and edits nodes by reference.
//   - Textual edits raw markup with anchored regular expressions.
package splice
