// Package cli wires together the Cobra command tree for the critic binary.
//
// It defines the root command and all subcommands (review, config, models,
// cache, languages, version), binds flags, reads configuration, invokes the
// review engine, and returns deterministic exit codes.
package cli
