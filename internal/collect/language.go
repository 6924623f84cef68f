package collect

import (
	"sort"
	"strings"
)

var languageExtensions = map[string][]string{
	"python":     {".py"},
	"javascript": {".js", ".jsx", ".ts", ".tsx"},
	"java":       {".java"},
	"cpp":        {".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h"},
	"c":          {".c", ".h"},
	"go":         {".go"},
	"rust":       {".rs"},
	"ruby":       {".rb"},
	"php":        {".php"},
	"html":       {".html", ".htm"},
	"css":        {".css"},
	"markdown":   {".md", ".markdown"},
}

// Accepts reports whether a file with the given suffix passes the filter
// for language. An empty or unrecognized language accepts everything.
func Accepts(language, suffix string) bool {
	if language == "" {
		return true
	}
	exts, ok := languageExtensions[strings.ToLower(language)]
	if !ok {
		return true
	}
	suffix = strings.ToLower(suffix)
	for _, ext := range exts {
		if ext == suffix {
			return true
		}
	}
	return false
}

// KnownLanguage reports whether language has an entry in the table.
func KnownLanguage(language string) bool {
	_, ok := languageExtensions[strings.ToLower(language)]
	return ok
}

// Languages returns the supported language tags in sorted order.
func Languages() []string {
	langs := make([]string, 0, len(languageExtensions))
	for l := range languageExtensions {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Extensions returns a copy of the suffixes mapped to language, or nil.
func Extensions(language string) []string {
	exts, ok := languageExtensions[strings.ToLower(language)]
	if !ok {
		return nil
	}
	return append([]string(nil), exts...)
}
