package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/critic/internal/review"
)

// MarkdownWriter outputs a report suitable for pasting into a PR comment.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, res *review.Result) error {
	ew := &errWriter{w: w}

	ew.printf("## Code Review Results\n\n")
	ew.printf("| | |\n|---|---|\n")
	ew.printf("| Target | `%s` |\n", res.Target)
	if res.Provider != "" {
		ew.printf("| Reviewer | %s / %s |\n", res.Provider, res.Model)
	}
	ew.printf("| Files | %d |\n", len(res.Files))
	if res.Cached {
		ew.printf("| Cached | yes |\n")
	}
	ew.println("")

	if res.Empty {
		ew.println("No files found to review.")
		return ew.err
	}

	ew.printf("<details>\n<summary>Directory layout</summary>\n\n```text\n%s```\n\n</details>\n\n",
		strings.TrimRight(res.Layout, "\n")+"\n")

	if len(res.Omitted) > 0 {
		ew.println("**Omitted (unreadable):**")
		ew.println("")
		for _, rel := range res.Omitted {
			ew.printf("- `%s`\n", rel)
		}
		ew.println("")
	}

	ew.printf("### Review\n\n%s\n", strings.TrimRight(res.Reply, "\n"))
	ew.printf("\n---\n%s\n", footer(res))
	return ew.err
}

func footer(res *review.Result) string {
	return fmt.Sprintf("*%s %s, run %s, %dms*", res.Tool, res.Version, res.RunID, res.Timing.TotalMs)
}
