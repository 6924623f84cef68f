package layout

import (
	"path/filepath"
	"sort"
	"strings"
)

// EmptyLayout is rendered when no files were selected.
const EmptyLayout = "Directory layout: No files found.\n\n"

const (
	tee       = "├── "
	corner    = "└── "
	pipe      = "│   "
	blank     = "    "
	separator = "/"
)

// Node is a directory or a file in the rendered tree. Directories have a
// non-nil Children map; files have none.
type Node struct {
	Name     string
	Children map[string]*Node
}

// IsDir reports whether n is a directory node.
func (n *Node) IsDir() bool {
	return n.Children != nil
}

func newDir(name string) *Node {
	return &Node{Name: name, Children: make(map[string]*Node)}
}

// Sorted returns the children of n, directories first, then by name.
func (n *Node) Sorted() []*Node {
	kids := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		kids = append(kids, c)
	}
	sort.Slice(kids, func(i, j int) bool {
		if kids[i].IsDir() != kids[j].IsDir() {
			return kids[i].IsDir()
		}
		return kids[i].Name < kids[j].Name
	})
	return kids
}

// Build merges slash-separated relative paths into a tree. Intermediate
// segments become shared directory nodes; the last segment is a file. A name
// used both as a file and as a directory prefix is rendered as a directory.
func Build(rels []string) *Node {
	root := newDir("")
	for _, rel := range rels {
		parts := strings.Split(rel, separator)
		cur := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := cur.Children[part]
			if !ok {
				next = newDir(part)
				cur.Children[part] = next
			} else if !next.IsDir() {
				next.Children = make(map[string]*Node)
			}
			cur = next
		}
		leaf := parts[len(parts)-1]
		if _, ok := cur.Children[leaf]; !ok {
			cur.Children[leaf] = &Node{Name: leaf}
		}
	}
	return root
}

// RelPath returns path relative to root with "/" separators. Paths that are
// already relative are only normalized.
func RelPath(root, path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(root, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// RootName is the label printed on the first line of a layout.
func RootName(root string) string {
	name := filepath.Base(filepath.Clean(root))
	if name == string(filepath.Separator) || name == "." {
		if abs, err := filepath.Abs(root); err == nil {
			name = filepath.Base(abs)
		}
	}
	if name == string(filepath.Separator) {
		return ""
	}
	return name
}

// Render draws the layout of files under root, followed by one blank line.
func Render(root string, files []string) string {
	if len(files) == 0 {
		return EmptyLayout
	}

	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = RelPath(root, f)
	}
	sort.Strings(rels)

	var b strings.Builder
	b.WriteString(RootName(root))
	b.WriteString("/\n")
	writeChildren(&b, Build(rels), "")
	b.WriteString("\n")
	return b.String()
}

func writeChildren(b *strings.Builder, n *Node, prefix string) {
	kids := n.Sorted()
	for i, k := range kids {
		connector, indent := tee, pipe
		if i == len(kids)-1 {
			connector, indent = corner, blank
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(k.Name)
		if !k.IsDir() {
			b.WriteString("\n")
			continue
		}
		b.WriteString("/\n")
		writeChildren(b, k, prefix+indent)
	}
}
