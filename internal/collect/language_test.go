package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccepts(t *testing.T) {
	tests := []struct {
		language string
		suffix   string
		want     bool
	}{
		{"", ".anything", true},
		{"python", ".py", true},
		{"python", ".PY", true},
		{"Python", ".py", true},
		{"python", ".md", false},
		{"python", "", false},
		{"javascript", ".tsx", true},
		{"cpp", ".h", true},
		{"c", ".h", true},
		{"c", ".cpp", false},
		{"markdown", ".markdown", true},
		{"html", ".htm", true},
		{"cobol", ".cbl", true}, // unknown tags do not filter
	}

	for _, tt := range tests {
		if got := Accepts(tt.language, tt.suffix); got != tt.want {
			t.Errorf("Accepts(%q, %q) = %v, want %v", tt.language, tt.suffix, got, tt.want)
		}
	}
}

func TestKnownLanguage(t *testing.T) {
	assert.True(t, KnownLanguage("GO"))
	assert.True(t, KnownLanguage("rust"))
	assert.False(t, KnownLanguage("cobol"))
	assert.False(t, KnownLanguage(""))
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	assert.Len(t, langs, 12)
	assert.IsIncreasing(t, langs)
	assert.Contains(t, langs, "markdown")
}

func TestExtensions(t *testing.T) {
	exts := Extensions("cpp")
	assert.Equal(t, []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h"}, exts)

	exts[0] = ".mutated"
	assert.Equal(t, ".cpp", Extensions("cpp")[0], "Extensions must return a copy")

	assert.Nil(t, Extensions("cobol"))
}
