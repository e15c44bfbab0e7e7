// Package session wires the VFS, remapping engine, loader dispatcher,
// and host filesystem loader into the single, self-contained unit a
// compiler invocation owns for its lifetime: each session owns its own
// VFS, remapping list, base path, and allow-list, and shares nothing
// mutable with others.
package session

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethsol/svfs/hostfs"
	"github.com/ethsol/svfs/input"
	"github.com/ethsol/svfs/loader"
	"github.com/ethsol/svfs/remap"
	"github.com/ethsol/svfs/resolver"
	"github.com/ethsol/svfs/vfs"
)

// Session bundles one compilation's read/write state.
type Session struct {
	VFS        *vfs.VFS
	Remap      *remap.Engine
	Resolver   *resolver.Resolver
	Dispatcher *loader.Dispatcher
	HostFS     *hostfs.Loader
	Deps       *vfs.DependencyView

	basePath string
}

// New creates a session with the given base path. The host filesystem
// loader is registered last on the dispatcher, as the default CLI host
// requires.
func New(basePath string) *Session {
	v := vfs.New()
	engine := remap.New()
	hl := hostfs.New(basePath, nil)
	dispatcher := loader.New(v)
	dispatcher.Register(hl.Callback())

	return &Session{
		VFS:        v,
		Remap:      engine,
		Resolver:   resolver.New(engine),
		Dispatcher: dispatcher,
		HostFS:     hl,
		Deps:       vfs.NewDependencyView(),
		basePath:   basePath,
	}
}

// AddRemapping parses and appends a remapping rule, also widening the
// allow-list with the directory part of its target when the target
// looks like a filesystem path.
func (s *Session) AddRemapping(raw string) error {
	ordinal := len(s.Remap.Rules())
	rule, err := remap.Parse(raw, ordinal)
	if err != nil {
		return err
	}
	s.Remap.Add(rule)

	if dir := filepath.Dir(filepath.FromSlash(rule.Target)); dir != "." {
		s.HostFS.AllowDir(dir)
	}
	return nil
}

// AddCLISource reads path from disk (rewriting OS separators to "/"
// with no further normalization) and inserts it under that SUN with
// origin OriginCLI. Its directory joins the allow-list.
func (s *Session) AddCLISource(path string) (vfs.SUN, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	sun := vfs.SUN(strings.ReplaceAll(path, string(os.PathSeparator), "/"))
	if err := s.VFS.InsertWithHint(sun, content, vfs.OriginCLI, path); err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		s.HostFS.AllowDir(dir)
	}
	return sun, nil
}

// AddStdin inserts content under the fixed SUN "<stdin>".
// Only one such entry is permitted per session.
func (s *Session) AddStdin(content []byte) error {
	return s.VFS.Insert(vfs.StdinSUN, content, vfs.OriginStdin)
}

// LoadStandardJSON populates the VFS from a decoded structured-JSON
// input document: "content" entries are inserted directly; "urls"
// entries are registered with the dispatcher for deferred loading. Keys
// are sorted before insertion so VFS insertion order — and therefore
// Iter() — is reproducible across runs, independent of Go's randomized
// map-iteration order.
func (s *Session) LoadStandardJSON(doc *input.StandardJSON) error {
	keys := make([]string, 0, len(doc.Sources))
	for key := range doc.Sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		src := doc.Sources[key]
		sun := vfs.SUN(key)
		switch {
		case src.Content != nil:
			if err := s.VFS.Insert(sun, []byte(*src.Content), vfs.OriginJSONContent); err != nil {
				return err
			}
		case len(src.URLs) > 0:
			s.Dispatcher.RegisterURLs(sun, src.URLs)
		}
	}
	return nil
}

// ResolveImport resolves importPath against importer's SUN, then loads
// it via the dispatcher if it isn't already in the VFS, recording the
// edge on the diagnostic dependency view.
func (s *Session) ResolveImport(ctx context.Context, importer vfs.SUN, importPath string) (vfs.SUN, []byte, error) {
	sun, err := s.Resolver.Resolve(importer, importPath)
	if err != nil {
		return "", nil, err
	}

	content, err := s.Dispatcher.Load(ctx, sun)
	if err != nil {
		return sun, nil, err
	}

	if recErr := s.Deps.RecordImport(importer, sun); recErr != nil {
		return sun, content, recErr
	}
	return sun, content, nil
}
