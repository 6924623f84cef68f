package collect

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Logger receives non-fatal collection warnings.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// Options controls what a collection selects.
type Options struct {
	Recursive bool
	Patterns  []string
	Language  string
}

// Selection is the outcome of a collection.
type Selection struct {
	// Root is the absolute directory that relative paths are computed
	// against. For a single-file target it is the file's parent.
	Root string
	// Files holds absolute paths ordered by their root-relative form.
	Files []string
	// Single is true when the target named one file.
	Single bool
	// Warnings holds the AccessErrors met while walking.
	Warnings []error
}

// Empty reports whether nothing was selected.
func (s *Selection) Empty() bool {
	return len(s.Files) == 0
}

// Collector walks review targets.
type Collector struct {
	log Logger
	// readDir lists a directory. It may return entries together with an
	// error when listing stopped part way.
	readDir func(dir string) ([]os.DirEntry, error)
}

// NewCollector returns a Collector that reports warnings to log. A nil log
// discards them.
func NewCollector(log Logger) *Collector {
	if log == nil {
		log = nopLogger{}
	}
	return &Collector{log: log, readDir: os.ReadDir}
}

// Collect selects files under target. The walk is depth-first and
// sequential; ctx is checked before every directory and entry.
func (c *Collector) Collect(ctx context.Context, target string, opts Options) (*Selection, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, &ConfigError{Path: target, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &ConfigError{Path: target, Err: err}
	}

	m := NewMatcher(opts.Patterns)

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil, &ConfigError{Path: target}
		}
		sel := &Selection{Root: filepath.Dir(abs), Single: true}
		// The language filter does not apply to an explicitly named file.
		if !m.Ignore(filepath.Base(abs)) {
			sel.Files = []string{abs}
		}
		return sel, nil
	}

	sel := &Selection{Root: abs}
	if err := c.walk(ctx, abs, m, opts, sel); err != nil {
		return nil, err
	}
	sortByRel(sel.Root, sel.Files)
	return sel, nil
}

func (c *Collector) walk(ctx context.Context, dir string, m *Matcher, opts Options, sel *Selection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Entries read before a failure are still processed.
	entries, err := c.readDir(dir)
	if err != nil {
		aerr := &AccessError{Path: dir, Err: err}
		sel.Warnings = append(sel.Warnings, aerr)
		c.log.Warnf("%v", aerr)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := e.Name()
		if m.Ignore(name) {
			continue
		}
		path := filepath.Join(dir, name)

		switch entryKind(path, e) {
		case kindFile:
			if !Accepts(opts.Language, filepath.Ext(name)) {
				continue
			}
			sel.Files = append(sel.Files, path)
		case kindDir:
			if !opts.Recursive {
				continue
			}
			if err := c.walk(ctx, path, m, opts, sel); err != nil {
				return err
			}
		}
	}
	return nil
}

type kind int

const (
	kindOther kind = iota
	kindFile
	kindDir
)

// entryKind resolves what an entry is. Links are followed to find files,
// but linked directories are reported as kindOther so a walk never loops.
func entryKind(path string, e fs.DirEntry) kind {
	t := e.Type()
	if t&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return kindOther
		}
		return kindFile
	}
	switch {
	case t.IsRegular():
		return kindFile
	case t.IsDir():
		return kindDir
	default:
		return kindOther
	}
}

func sortByRel(root string, files []string) {
	sort.SliceStable(files, func(i, j int) bool {
		return relKey(root, files[i]) < relKey(root, files[j])
	})
}

func relKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
