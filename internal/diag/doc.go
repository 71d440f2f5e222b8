// Package diag defines the diagnostic model shared by the analyze pipeline.
//
// Diagnostics are per-path findings (a trace that would not read, decode or
// qualify), not compiler errors with spans: a trace file is accepted or
// skipped whole, so a path plus a stable code is all the location there is.
// Producers emit through a Reporter; the pipeline collects into per-file
// Bags and merges them in file order so output stays deterministic.
// Rendering lives with the CLI, not here.
package diag
