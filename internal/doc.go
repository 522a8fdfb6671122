// Package internal provides the core functionality of the vlin
// SystemVerilog style linter.
//
// This package implements the linting engine that coordinates a run over
// one source file: lexing the source into a token stream, instantiating
// and configuring the enabled rules, feeding each rule the file at its
// input granularity (tokens or raw lines), filtering waived findings and
// folding the rule reports into issues.
//
// Key components:
//
// Engine: the main linting engine. It owns the per-rule configuration,
// builds a fresh rule set for every file and merges the results.
//
// Cache: a content-hash keyed result cache persisted between runs, so
// unchanged files are answered without re-linting.
//
// Watch support: directories can be watched for changes, re-linting
// files as they are written.
//
// SourceCode: a simple structure representing the content of a source
// file as a collection of lines, used by the output formatter.
//
// Usage:
//
//	engine, err := internal.NewEngine(config.Rules)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.sv")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("Found issue: %s at %s\n", issue.Message, issue.Start)
//	}
//
// This package is intended for internal use within the linter and should
// not be imported by external packages.
package internal
