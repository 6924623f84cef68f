package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dshills/critic/internal/review"
)

const (
	bannerWidth = 80
	bannerTitle = "CODE REVIEW RESULTS"
	wrapWidth   = 80
)

// TextWriter outputs the review reply framed by a results banner.
type TextWriter struct {
	// Render formats the reply as terminal markdown.
	Render bool
}

func (t *TextWriter) Write(w io.Writer, res *review.Result) error {
	ew := &errWriter{w: w}
	if res.Empty {
		ew.println("No files found to review")
		return ew.err
	}

	rule := strings.Repeat("=", bannerWidth)
	ew.println("")
	ew.println(rule)
	ew.println(bannerTitle)
	ew.println(rule)
	ew.println("")

	reply := res.Reply
	if t.Render {
		reply = renderMarkdown(reply)
	}
	ew.println(reply)

	if len(res.Omitted) > 0 {
		ew.printf("\nOmitted (unreadable): %s\n", strings.Join(res.Omitted, ", "))
	}
	return ew.err
}

// renderMarkdown styles text for the terminal, returning it unchanged when
// rendering fails.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
