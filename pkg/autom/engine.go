// Package autom is the boundary to the automorphism engine. The engine
// consumes a colored graph and hands back group generators one at a time
// through a callback invoked during a single blocking call.
package autom

import (
	"context"

	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
)

// EmitFunc receives one generator. Returning an error aborts the run.
type EmitFunc func(*perm.Permutation) error

// Engine computes automorphism-group generators for a graph.
type Engine interface {
	// Generators invokes emit once per generator and returns when the
	// underlying computation has finished.
	Generators(ctx context.Context, g *graph.Graph, emit EmitFunc) error
}

// Collect runs the engine and gathers all generators into a slice.
func Collect(ctx context.Context, engine Engine, g *graph.Graph) ([]*perm.Permutation, error) {
	var generators []*perm.Permutation
	err := engine.Generators(ctx, g, func(p *perm.Permutation) error {
		generators = append(generators, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return generators, nil
}

// Static serves a fixed generator list, typically parsed from a file. It
// ignores the graph.
type Static []*perm.Permutation

func (s Static) Generators(_ context.Context, _ *graph.Graph, emit EmitFunc) error {
	for _, p := range s {
		if err := emit(p); err != nil {
			return err
		}
	}
	return nil
}
