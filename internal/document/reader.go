package document

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Logger receives non-fatal read warnings.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// ReadError reports a file whose content could not be embedded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if errors.Is(e.Err, errUndecodable) {
		return fmt.Sprintf("could not read %s (binary file?)", e.Path)
	}
	return fmt.Sprintf("error reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

var errUndecodable = errors.New("content could not be decoded")

// Reader loads file content for embedding.
type Reader struct {
	log Logger
}

// NewReader returns a Reader that reports failures to log. A nil log
// discards them.
func NewReader(log Logger) *Reader {
	if log == nil {
		log = nopLogger{}
	}
	return &Reader{log: log}
}

// Read returns the sanitized text of path. On any failure it logs a warning
// and returns false.
func (r *Reader) Read(path string) (string, bool) {
	text, err := r.load(path)
	if err != nil {
		r.log.Warnf("%v", err)
		return "", false
	}
	return text, true
}

func (r *Reader) load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	text, err := decode(data)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return Sanitize(text), nil
}

// decode interprets data as UTF-8 when valid and as ISO-8859-1 otherwise.
func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errUndecodable, err)
	}
	return string(out), nil
}

// Sanitize prepares text for embedding. Empty input is returned unchanged.
func Sanitize(content string) string {
	if content == "" {
		return ""
	}
	content = strings.ReplaceAll(content, "\x00", "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}
