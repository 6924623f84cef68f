package collect

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Matcher tests base names against a compiled set of ignore patterns.
type Matcher struct {
	literals map[string]bool
	globs    []*regexp.Regexp
}

// NewMatcher compiles patterns. Blank patterns and comments are skipped.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{literals: make(map[string]bool)}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		if isGlob(p) {
			m.globs = append(m.globs, compileGlob(p))
			continue
		}
		m.literals[p] = true
	}
	return m
}

// Match reports whether name matches one of the patterns. The hidden-name
// rule is not applied here; see Ignore.
func (m *Matcher) Match(name string) bool {
	if m.literals[name] {
		return true
	}
	for _, re := range m.globs {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Ignore reports whether an entry with the given base name is excluded.
// Names starting with "." are always excluded.
func (m *Matcher) Ignore(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return m.Match(name)
}

// Len returns the number of usable patterns.
func (m *Matcher) Len() int {
	return len(m.literals) + len(m.globs)
}

// ShouldIgnore reports whether name is excluded by the hidden-name rule or
// by any of patterns. Matching is on the base name only.
func ShouldIgnore(name string, patterns []string) bool {
	return NewMatcher(patterns).Ignore(name)
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?")
}

// compileGlob turns a glob into an anchored regexp. `*` matches any run of
// characters, `?` exactly one; everything else is literal.
func compileGlob(p string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	for _, r := range p {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return regexp.MustCompile(b.String())
}

// ParsePatterns reads newline-separated patterns, dropping blank lines and
// lines that start with "#".
func ParsePatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// LoadIgnoreFile reads patterns from path. An empty path yields no patterns.
func LoadIgnoreFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("ignore file '%s' not found", path)
		}
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	defer f.Close()

	patterns, err := ParsePatterns(f)
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
