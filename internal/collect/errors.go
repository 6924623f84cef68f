package collect

import (
	"errors"
	"fmt"
	"io/fs"
)

// ConfigError reports a review target that cannot be used. It is fatal and
// raised before any traversal.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("path '%s' does not exist", e.Path)
	}
	if e.Err == nil {
		return fmt.Sprintf("path '%s' is not a regular file or directory", e.Path)
	}
	return fmt.Sprintf("cannot use '%s': %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AccessError reports a directory that could not be listed. Collection
// continues past it.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	if errors.Is(e.Err, fs.ErrPermission) {
		return fmt.Sprintf("no permission to access %s", e.Path)
	}
	return fmt.Sprintf("cannot list %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
