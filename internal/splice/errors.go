package splice

import "errors"

var (
	// ErrPlaceholderNotFound means the shell document has no merge target.
	ErrPlaceholderNotFound = errors.New("placeholder region not found in shell document")

	// ErrPlaceholderUnterminated means the placeholder's closing tag is missing.
	ErrPlaceholderUnterminated = errors.New("placeholder region has no closing tag")

	// ErrBodyNotFound means a source page has no <body> element.
	ErrBodyNotFound = errors.New("source page has no body element")

	// ErrSourceNotDirectory means the configured source bundle is not a directory.
	ErrSourceNotDirectory = errors.New("source bundle is not a directory")
)
