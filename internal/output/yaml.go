package output

import (
	"fmt"
	"io"

	"github.com/dshills/critic/internal/review"
	"gopkg.in/yaml.v3"
)

// YAMLWriter outputs the full result as YAML.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, res *review.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
