package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/critic/internal/review"
	"github.com/mattn/go-isatty"
)

// Writer writes a result in a specific format.
type Writer interface {
	Write(w io.Writer, res *review.Result) error
}

// GetWriter returns a writer for the specified format. tty enables terminal
// markdown rendering for the text format.
func GetWriter(format string, tty bool) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{Render: tty}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "yaml":
		return &YAMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteResult writes the result to outPath, or to stdout when outPath is empty.
func WriteResult(res *review.Result, format, outPath string, stdout io.Writer) error {
	var w io.Writer = stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	writer, err := GetWriter(format, IsTerminal(w))
	if err != nil {
		return err
	}
	return writer.Write(w, res)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
