// Package collect selects the files that go into a review document.
//
// Selection starts from a target that is either a single file or a
// directory. Directory entries are filtered by name against ignore patterns
// (literal names or `*`/`?` globs, always including hidden names) and by
// extension against a fixed language table, then optionally descended.
//
// Unreadable directories are reported as [AccessError] warnings and do not
// stop the walk. A target that does not exist is a [ConfigError].
package collect
