package document

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_RoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	a := filepath.Join(root, "a.py")
	b := filepath.Join(root, "sub", "b.py")
	writeFile(t, a, []byte("x"))
	writeFile(t, b, []byte("y"))

	doc, err := NewAssembler(nil).Assemble(context.Background(), root, []string{b, a})
	require.NoError(t, err)

	want := "proj/\n" +
		"├── sub/\n" +
		"│   └── b.py\n" +
		"└── a.py\n" +
		"\n" +
		"\n+++ a.py START +++\nx\n\n+++ a.py END +++\n" +
		"\n+++ sub/b.py START +++\ny\n\n+++ sub/b.py END +++\n"
	assert.Equal(t, want, doc.Text)
	assert.Equal(t, []string{"a.py", "sub/b.py"}, doc.Files)
	assert.Equal(t, []string{"a.py", "sub/b.py"}, doc.Included)
	assert.Empty(t, doc.Omitted)
	assert.True(t, strings.HasPrefix(doc.Text, doc.Layout))
}

func TestAssemble_UnreadableFileStaysInLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	ok := filepath.Join(root, "ok.go")
	writeFile(t, ok, []byte("package ok\n"))
	missing := filepath.Join(root, "gone.go")

	log := &recordingLogger{}
	doc, err := NewAssembler(log).Assemble(context.Background(), root, []string{ok, missing})
	require.NoError(t, err)

	assert.Contains(t, doc.Layout, "gone.go")
	assert.NotContains(t, doc.Text, "+++ gone.go START +++")
	assert.Contains(t, doc.Text, "+++ ok.go START +++")
	assert.Equal(t, []string{"gone.go"}, doc.Omitted)
	assert.Equal(t, []string{"ok.go"}, doc.Included)
	assert.Len(t, log.warnings, 1)
}

func TestAssemble_OrderIndependentOfWorkers(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	var files []string
	for _, rel := range []string{"m/1.go", "a.go", "z/q/r.go", "b.go", "m/0.go", "c/d.go"} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		writeFile(t, p, []byte("// "+rel+"\r\n"))
		files = append(files, p)
	}

	seq, err := NewAssembler(nil, WithWorkers(1)).Assemble(context.Background(), root, files)
	require.NoError(t, err)
	par, err := NewAssembler(nil, WithWorkers(8)).Assemble(context.Background(), root, files)
	require.NoError(t, err)

	assert.Equal(t, seq.Text, par.Text)
	assert.Equal(t, []string{"a.go", "b.go", "c/d.go", "m/0.go", "m/1.go", "z/q/r.go"}, seq.Files)
}

func TestAssemble_Transform(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "k.go")
	writeFile(t, p, []byte("token"))

	doc, err := NewAssembler(nil, WithTransform(func(rel, content string) string {
		return strings.ToUpper(content)
	})).Assemble(context.Background(), root, []string{p})
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "\nTOKEN\n")
}

func TestAssemble_Empty(t *testing.T) {
	doc, err := NewAssembler(nil).Assemble(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Directory layout: No files found.\n\n", doc.Text)
	assert.Empty(t, doc.Files)
}

func TestAssemble_Cancelled(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "a.go")
	writeFile(t, p, []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAssembler(nil).Assemble(ctx, root, []string{p})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeuristicCounter(t *testing.T) {
	c := heuristicCounter{}
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("abc"))
	assert.Equal(t, 2, c.Count("abcde"))
}
