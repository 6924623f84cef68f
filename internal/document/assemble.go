package document

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/critic/internal/layout"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent file reads.
const DefaultWorkers = 4

// Document is an assembled review payload.
type Document struct {
	// Layout is the rendered directory tree, including its trailing blank line.
	Layout string
	// Text is the full payload: layout followed by the file blocks.
	Text string
	// Files lists every selected file, root-relative and sorted.
	Files []string
	// Included lists the files that have a block in Text.
	Included []string
	// Omitted lists the files whose content could not be read.
	Omitted []string
}

// TransformFunc rewrites sanitized content before it is embedded.
type TransformFunc func(rel, content string) string

// Assembler builds documents from selected files.
type Assembler struct {
	reader    *Reader
	workers   int
	transform TransformFunc
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithWorkers sets how many files are read at once. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(a *Assembler) {
		if n < 1 {
			n = 1
		}
		a.workers = n
	}
}

// WithTransform installs a content rewrite applied to every included file.
func WithTransform(fn TransformFunc) Option {
	return func(a *Assembler) { a.transform = fn }
}

// NewAssembler returns an Assembler that reports read failures to log.
func NewAssembler(log Logger, opts ...Option) *Assembler {
	a := &Assembler{
		reader:  NewReader(log),
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type slot struct {
	content string
	ok      bool
}

// Assemble reads files and renders the document for root. Block order is
// the sorted relative-path order regardless of how reads are scheduled.
func (a *Assembler) Assemble(ctx context.Context, root string, files []string) (*Document, error) {
	type entry struct {
		rel  string
		path string
	}
	entries := make([]entry, len(files))
	for i, f := range files {
		entries[i] = entry{rel: layout.RelPath(root, f), path: f}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	slots := make([]slot, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := a.reader.load(e.path)
			if err != nil {
				a.reader.log.Warnf("%v", err)
				return nil
			}
			slots[i] = slot{content: text, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &Document{
		Layout: layout.Render(root, files),
		Files:  make([]string, len(entries)),
	}

	var b strings.Builder
	b.WriteString(doc.Layout)
	for i, e := range entries {
		doc.Files[i] = e.rel
		if !slots[i].ok {
			doc.Omitted = append(doc.Omitted, e.rel)
			continue
		}
		content := slots[i].content
		if a.transform != nil {
			content = a.transform(e.rel, content)
		}
		writeBlock(&b, e.rel, content)
		doc.Included = append(doc.Included, e.rel)
	}
	doc.Text = b.String()
	return doc, nil
}

func writeBlock(b *strings.Builder, rel, content string) {
	fmt.Fprintf(b, "\n+++ %s START +++\n", rel)
	b.WriteString(content)
	fmt.Fprintf(b, "\n+++ %s END +++\n", rel)
}
