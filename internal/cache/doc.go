// Package cache provides a file-based cache for review replies.
//
// Entries are keyed by a SHA-256 hash of the provider name, model, sampling
// settings, system prompt and assembled document (see [BuildKey]). Each entry
// stores the raw reply with a creation timestamp and a TTL in seconds;
// expired entries miss on read and are counted by [Cache.GetStats].
//
// The default directory is $XDG_CACHE_HOME/critic (or the OS-appropriate
// equivalent). Access is serialized across processes with a flock on a
// ".lock" file in that directory.
package cache
