package vfs

import (
	"errors"

	graphlib "github.com/dominikbraun/graph"
)

// DependencyView is a diagnostics-only import graph over SUNs, filled in
// as imports are resolved. It is never consulted by resolution logic —
// it is written only through RecordImport (the session calls it after
// each resolved and loaded import; the resolver itself never touches
// it), and nothing in this package reads it back to make a decision. It is a thin
// adapter over dominikbraun/graph keyed by SUN string hashes.
type DependencyView struct {
	g graphlib.Graph[string, string]
}

// NewDependencyView creates an empty view.
func NewDependencyView() *DependencyView {
	return &DependencyView{g: graphlib.New(graphlib.StringHash, graphlib.Directed())}
}

// RecordImport adds an edge importer -> imported, creating either
// vertex if it doesn't already exist.
func (d *DependencyView) RecordImport(importer, imported SUN) error {
	for _, s := range []string{string(importer), string(imported)} {
		if _, err := d.g.Vertex(s); err != nil {
			if addErr := d.g.AddVertex(s); addErr != nil && !errors.Is(addErr, graphlib.ErrVertexAlreadyExists) {
				return addErr
			}
		}
	}

	if err := d.g.AddEdge(string(importer), string(imported)); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return err
	}
	return nil
}

// Edges returns every recorded (importer, imported) pair. Order is not
// guaranteed; callers that need determinism should sort.
func (d *DependencyView) Edges() ([][2]SUN, error) {
	edges, err := d.g.Edges()
	if err != nil {
		return nil, err
	}

	out := make([][2]SUN, 0, len(edges))
	for _, e := range edges {
		out = append(out, [2]SUN{SUN(e.Source), SUN(e.Target)})
	}
	return out, nil
}
