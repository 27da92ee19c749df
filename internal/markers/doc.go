// Package markers names the structural markers docsplice depends on.
//
// Two external producers shape the documents this tool edits: the godoc-style
// generator that writes the source bundle, and the Sphinx theme that writes the shell.
// Their output conventions are captured here as versioned presets.
//
// A SourceSet lists the navigation chrome to strip from every source body and the
// name of the bundle index. A ShellSet names the placeholder region in the shell.
package markers
