package storage

import "fmt"

// InvalidPathError reports a malformed or structurally inconsistent cache
// path: the empty path, or a path that tries to descend through a leaf. It
// indicates a caller bug and is never retried.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	if e.Path == "" {
		return "invalid path: " + e.Reason
	}
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// ConfigurationError reports that the backing directory for a file cache
// could not be established. It is fatal to the cache's construction.
type ConfigurationError struct {
	Dir    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("file cache directory %q: %s", e.Dir, e.Reason)
}
