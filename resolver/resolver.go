// Package resolver implements the import resolver: given an importer's
// SUN and a literal import path, it produces the SUN that the loader
// dispatcher should load.
package resolver

import (
	"errors"
	"strings"

	"github.com/ethsol/svfs/pathutil"
	"github.com/ethsol/svfs/remap"
	"github.com/ethsol/svfs/vfs"
)

// ErrImportPathEmpty is returned when the import literal is the empty
// string.
var ErrImportPathEmpty = errors.New("import path is empty")

// Resolver resolves import literals against a remapping Engine. It
// holds a read-only reference to the engine and never mutates it or
// the VFS — resolution is pure, and the resolver never writes.
type Resolver struct {
	remap *remap.Engine
}

// New creates a resolver bound to engine.
func New(engine *remap.Engine) *Resolver {
	return &Resolver{remap: engine}
}

// IsRelative reports whether an import literal is a relative import
// (begins with "./" or "../").
func IsRelative(p string) bool {
	return strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../")
}

// Resolve classifies importPath, normalizes it against the importer's
// own (never-normalized) SUN when relative, and applies a single
// remapping pass. Resolution never fails except on an empty import
// literal.
func (r *Resolver) Resolve(importer vfs.SUN, importPath string) (vfs.SUN, error) {
	if importPath == "" {
		return "", ErrImportPathEmpty
	}

	if !IsRelative(importPath) {
		candidate := vfs.SUN(importPath)
		return r.remap.Apply(importer, candidate), nil
	}

	pNorm := pathutil.Normalize(importPath)
	k, tail := pathutil.CountLeadingParent(pNorm)

	prefix := pathutil.StripLastSegment(string(importer))
	for n := 0; n < k; n++ {
		prefix = pathutil.StripLastSegment(prefix)
	}

	result := pathutil.JoinNonEmpty(prefix, tail)
	return r.remap.Apply(importer, vfs.SUN(result)), nil
}
