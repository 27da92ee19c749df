// Package errors provides the classified error type used across docsplice.
//
// Every failure of a splice run is fatal, but the category still matters: it picks
// the process exit code and tells the operator whether the shell template, the
// configuration, or the filesystem is at fault.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "relocate entry").
//		WithContext("path", src).
//		Build()
package errors
