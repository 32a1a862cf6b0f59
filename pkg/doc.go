// Package pkg provides the core libraries for descriptive quotient graphs.
//
// # Overview
//
// dqg decides whether the orbit quotient of a colored graph under an
// automorphism group is descriptive: whether each orbit has a representative
// such that the picked vertices reproduce the quotient's edges in the
// original graph. The pkg directory is organized along the data flow:
//
//  1. [perm] - Permutations in cycle notation (compose, power, merge, parse)
//  2. [graph] - Colored graphs with an ordering-state machine and parsers
//  3. [quotient] - Orbit partitions and quotient graph construction
//  4. [encoding] - CNF encoding of the descriptiveness question
//  5. [sat] - SAT oracle (gini) and external minimal-core tool driver
//  6. [search] - Repair loop, core extraction, powerset search, metrics
//  7. [autom] - Automorphism-engine boundary (dreadnaut subprocess)
//  8. [gap] - Conjugacy-class subgroup enumeration via GAP
//  9. [render] - Quotient graph output as DOT or SVG
//  10. [stats] - Per-run solver statistics
//
// # Architecture
//
// The typical data flow through dqg:
//
//	Colored graph (.dre, .txt, .csv)
//	         ↓
//	    [autom] package (automorphism generators)
//	         ↓
//	    [quotient] package (orbit partition + quotient graph)
//	         ↓
//	    [encoding] package (CNF formula)
//	         ↓
//	    [sat] package (model or unsatisfiability)
//	         ↓
//	    [search] package (repair loop, core extraction)
//
// # Quick Start
//
// Decide descriptiveness for a graph with known generators:
//
//	import (
//	    "context"
//	    "github.com/firefighterduck/dqg/pkg/autom"
//	    "github.com/firefighterduck/dqg/pkg/sat"
//	    "github.com/firefighterduck/dqg/pkg/search"
//	)
//
//	engine := &search.Engine{
//	    Graph:  g,
//	    Autom:  autom.Static(generators),
//	    Oracle: sat.GiniOracle{},
//	    Policy: search.PolicyRecolor,
//	}
//	result, err := engine.Run(context.Background())
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/search/...   # Specific package
//
// [perm]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/perm
// [graph]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/graph
// [quotient]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/quotient
// [encoding]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/encoding
// [sat]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/sat
// [search]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/search
// [autom]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/autom
// [gap]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/gap
// [render]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/render
// [stats]: https://pkg.go.dev/github.com/firefighterduck/dqg/pkg/stats
package pkg
