// Package layout renders the directory tree that heads a review document.
//
// Selected files are turned into root-relative, slash-separated paths,
// merged into a tree of directory and file nodes, and drawn with the usual
// box-drawing connectors. At every level directories come before files and
// each group is sorted by name, so the output depends only on the set of
// paths.
package layout
