// Package output formats review results for display or machine consumption.
//
// Four formats are supported:
//   - text: the reply under a CODE REVIEW RESULTS banner (default), rendered
//     as terminal markdown when writing to a TTY
//   - markdown: PR-comment friendly, with the directory layout collapsed
//   - json: the full structured result
//   - yaml: the same structure as YAML
//
// Use [GetWriter] to obtain a [Writer] for a format string, or [WriteResult]
// to handle destination selection.
package output
