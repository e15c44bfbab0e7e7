// Package hostfs implements the host filesystem loader: the default
// import callback, which maps a SUN to a real path under a base path
// and an allow-list of directories.
package hostfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ethsol/svfs/loader"
	"github.com/ethsol/svfs/vfs"
)

const fileScheme = "file://"

// ForbiddenError is returned when a resolved disk path falls outside
// every configured allow-list pattern.
type ForbiddenError struct {
	Path string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("path %q is outside the allowed directories", e.Path)
}

// IOError wraps a filesystem read failure with the path that failed.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Path, e.Err)
}
func (e *IOError) Unwrap() error { return e.Err }

// Loader is the default import callback: strip a "file://" prefix,
// join against the base path, and verify the result against an
// allow-list of directory glob patterns before reading.
type Loader struct {
	basePath   string
	allowGlobs []string
}

// New creates a Loader. basePath may be empty or relative to the
// process working directory. allowGlobs is a set of doublestar-style
// directory patterns; an empty allowGlobs forbids everything (callers
// should seed it from CLI-supplied source directories and remapping
// targets).
func New(basePath string, allowGlobs []string) *Loader {
	return &Loader{basePath: basePath, allowGlobs: append([]string(nil), allowGlobs...)}
}

// AllowDir adds a directory (or glob pattern rooted at a directory) to
// the allow-list. Called as new CLI source directories and remapping
// targets become known.
func (l *Loader) AllowDir(pattern string) {
	l.allowGlobs = append(l.allowGlobs, pattern)
}

// Callback adapts Load to the loader.Callback signature so it can be
// registered on a Dispatcher — conventionally last, since the default
// CLI host registers the host filesystem loader as its final fallback.
func (l *Loader) Callback() loader.Callback {
	return func(ctx context.Context, sun vfs.SUN) loader.Result {
		content, err := l.Load(sun)
		if err == nil {
			return loader.Found(content)
		}
		if os.IsNotExist(err) {
			return loader.NotFound()
		}
		return loader.Failed(err)
	}
}

// Load resolves sun to a disk path and reads it.
func (l *Loader) Load(sun vfs.SUN) ([]byte, error) {
	s := string(sun)
	s = strings.TrimPrefix(s, fileScheme)

	var candidate string
	if l.basePath != "" {
		// Deliberate literal concatenation, even when s looks absolute —
		// intentional, platform double-slash artifacts and all.
		candidate = l.basePath + s
	} else {
		candidate = s
	}

	candidate = filepath.Clean(filepath.FromSlash(candidate))

	if !l.isAllowed(candidate) {
		return nil, &ForbiddenError{Path: candidate}
	}

	content, err := os.ReadFile(candidate)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, &IOError{Path: candidate, Err: err}
	}
	return content, nil
}

func (l *Loader) isAllowed(candidate string) bool {
	cleanCandidate := filepath.ToSlash(candidate)
	for _, pattern := range l.allowGlobs {
		dir := filepath.ToSlash(pattern)
		if matchesDir(dir, cleanCandidate) {
			return true
		}
	}
	return false
}

// matchesDir reports whether candidate lies inside the directory named
// (or glob-matched) by dir: either candidate == dir, or candidate sits
// under dir/, or candidate matches a doublestar pattern rooted at dir.
func matchesDir(dir, candidate string) bool {
	if candidate == dir {
		return true
	}
	if strings.HasPrefix(candidate, dir+"/") {
		return true
	}
	matched, _ := doublestar.Match(dir, candidate)
	return matched
}
