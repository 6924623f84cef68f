// Package review runs the critic pipeline: collect files from a target,
// assemble them into one document, and send that document to a review
// service.
//
// [Engine.Prepare] performs the local half (ignore patterns, language filter,
// traversal, layout and content assembly) and never touches the network.
// [Engine.Send] makes at most one call to the configured
// [providers.Reviewer], bounded by a timeout and optionally answered from
// the reply cache. An empty selection is a successful, call-free outcome.
package review
