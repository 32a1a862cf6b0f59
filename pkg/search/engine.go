// Package search runs the core-breaking loop: build the orbit quotient,
// encode descriptiveness as a SAT problem, and as long as the quotient stays
// non-descriptive, extract an offending core and break it with the configured
// repair policy.
package search

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/firefighterduck/dqg/pkg/autom"
	"github.com/firefighterduck/dqg/pkg/encoding"
	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
	"github.com/firefighterduck/dqg/pkg/quotient"
	"github.com/firefighterduck/dqg/pkg/sat"
	"github.com/firefighterduck/dqg/pkg/stats"
)

// DefaultMaxIterations caps the repair loop before the engine gives up.
const DefaultMaxIterations = 30

// State is the engine's position in the search loop.
type State int

const (
	StateInitial State = iota
	StateGeneratorsComputed
	StateEncoded
	StateDescriptive
	StateNonDescriptive
	StateRepaired
	StateExhausted
	StateGaveUp
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateGeneratorsComputed:
		return "generators-computed"
	case StateEncoded:
		return "encoded"
	case StateDescriptive:
		return "descriptive"
	case StateNonDescriptive:
		return "non-descriptive"
	case StateRepaired:
		return "repaired"
	case StateExhausted:
		return "exhausted"
	case StateGaveUp:
		return "gave-up"
	default:
		return "unknown"
	}
}

// Outcome classifies how a run ended. None of these are errors.
type Outcome int

const (
	// OutcomeDescriptive means the oracle found a consistent transversal.
	OutcomeDescriptive Outcome = iota
	// OutcomeTriviallyDescriptive means the encoding produced no constraint
	// clauses, so the oracle never ran.
	OutcomeTriviallyDescriptive
	// OutcomeNonDescriptive means the quotient is non-descriptive and either
	// no repair policy is configured or the policy could not make progress.
	OutcomeNonDescriptive
	// OutcomeExhausted means the repairs removed every symmetry.
	OutcomeExhausted
	// OutcomeGaveUp means the iteration cap was reached.
	OutcomeGaveUp
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDescriptive:
		return "descriptive"
	case OutcomeTriviallyDescriptive:
		return "trivially descriptive"
	case OutcomeNonDescriptive:
		return "non-descriptive"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeGaveUp:
		return "gave up"
	default:
		return "unknown"
	}
}

// Result is what a finished run hands back.
type Result struct {
	Outcome    Outcome
	State      State
	Iterations int

	// Orbits and Quotient describe the last partition the engine built.
	Orbits   quotient.Orbits
	Quotient *quotient.QuotientGraph
	// Transversal is set for OutcomeDescriptive.
	Transversal encoding.Transversal
	// Core is the last offending core for OutcomeNonDescriptive, when one
	// was extracted.
	Core Core
	// Generators is the generator set of the final iteration.
	Generators []*perm.Permutation
}

// Engine drives the search. Graph, Autom and Oracle must be set; everything
// else has usable zero-value defaults.
type Engine struct {
	Graph  *graph.Graph
	Autom  autom.Engine
	Oracle sat.Oracle

	// MUS switches core extraction from brute force to the external tool.
	MUS *sat.MUSTool

	Policy        Policy
	CoreSize      int
	MaxIterations int

	// Validate re-checks every decoded transversal against the original
	// graph before reporting a descriptive result.
	Validate bool

	Logger *log.Logger
	Stats  *stats.Run
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

func (e *Engine) maxIterations() int {
	if e.MaxIterations > 0 {
		return e.MaxIterations
	}
	return DefaultMaxIterations
}

func (e *Engine) coreSize() int {
	if e.CoreSize > 0 {
		return e.CoreSize
	}
	return DefaultCoreSize
}

// Run executes the loop until a terminal state is reached. Expected outcomes
// (descriptive, non-descriptive, exhausted, gave up) land in the result;
// errors are reserved for invariant violations and external-tool failures.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	logger := e.logger()
	state := StateInitial

	generators, err := autom.Collect(ctx, e.Autom, e.Graph)
	if err != nil {
		return nil, err
	}
	e.Stats.LogGeneratorsDone(len(generators))
	state = e.transition(logger, state, StateGeneratorsComputed)

	var powers *PowerState
	iterations := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "search interrupted")
		}
		if len(generators) == 0 {
			state = e.transition(logger, state, StateExhausted)
			e.Stats.LogEnd()
			return &Result{
				Outcome:    OutcomeExhausted,
				State:      state,
				Iterations: iterations,
				Orbits:     quotient.Identity(e.Graph.Size()),
			}, nil
		}
		if iterations >= e.maxIterations() {
			state = e.transition(logger, state, StateGaveUp)
			e.Stats.LogEnd()
			return &Result{
				Outcome:    OutcomeGaveUp,
				State:      state,
				Iterations: iterations,
				Generators: generators,
			}, nil
		}

		iterationStart := time.Now()
		orbitStart := time.Now()
		orbits, err := quotient.Generate(generators)
		if err != nil {
			return nil, err
		}
		orbitTime := time.Since(orbitStart)

		quotientStart := time.Now()
		q := quotient.FromGraphOrbits(e.Graph, orbits)
		quotientTime := time.Since(quotientStart)

		encodingStart := time.Now()
		problem, err := encoding.EncodeProblem(q, e.Graph)
		if err != nil {
			return nil, err
		}
		encodingTime := time.Since(encodingStart)
		state = e.transition(logger, state, StateEncoded)

		record := stats.QuotientRecord{
			QuotientSize: q.Graph.Size(),
			OrbitTime:    orbitTime,
			QuotientTime: quotientTime,
			EncodingTime: encodingTime,
		}
		record.MinOrbitSize, record.MaxOrbitSize = q.OrbitSizes()
		if e.Stats.Enabled() {
			record.OrbitSizes = make(stats.OrbitHistogram)
			record.OrbitSizes.RecordGroups(orbits.Group())
		}

		if problem == nil {
			logger.Info("quotient is trivially descriptive", "iterations", iterations)
			state = e.transition(logger, state, StateDescriptive)
			record.Descriptive = true
			record.HandlingTime = time.Since(iterationStart)
			e.Stats.LogQuotient(record)
			e.Stats.LogEnd()
			return &Result{
				Outcome:    OutcomeTriviallyDescriptive,
				State:      state,
				Iterations: iterations,
				Orbits:     orbits,
				Quotient:   q,
				Generators: generators,
			}, nil
		}

		solverStart := time.Now()
		model, err := e.Oracle.Solve(problem.Formula)
		if err != nil {
			return nil, err
		}
		record.SolverTime = time.Since(solverStart)
		record.Descriptive = model != nil
		record.HandlingTime = time.Since(iterationStart)

		if model != nil {
			state = e.transition(logger, state, StateDescriptive)
			transversal := encoding.DecodeTransversal(problem, model.Value)
			if e.Validate {
				consistent, err := transversal.Consistent(e.Graph, q)
				if err != nil {
					return nil, err
				}
				if !consistent {
					return nil, errors.New(errors.ErrCodeSolver, "oracle model decodes to an inconsistent transversal")
				}
				validated := consistent
				record.Validated = &validated
			}
			e.Stats.LogQuotient(record)
			e.Stats.LogEnd()
			logger.Info("quotient is descriptive", "iterations", iterations)
			return &Result{
				Outcome:     OutcomeDescriptive,
				State:       state,
				Iterations:  iterations,
				Orbits:      orbits,
				Quotient:    q,
				Transversal: transversal,
				Generators:  generators,
			}, nil
		}
		e.Stats.LogQuotient(record)
		state = e.transition(logger, state, StateNonDescriptive)

		if e.Policy == PolicyNone {
			e.Stats.LogEnd()
			logger.Info("quotient is non-descriptive, no repair policy configured")
			return &Result{
				Outcome:    OutcomeNonDescriptive,
				State:      state,
				Iterations: iterations,
				Orbits:     orbits,
				Quotient:   q,
				Generators: generators,
			}, nil
		}

		core, err := e.extractCore(ctx, q, problem)
		if err != nil {
			return nil, err
		}
		if core == nil {
			e.Stats.LogEnd()
			logger.Warn("no core of the configured size, cannot repair", "size", e.coreSize())
			return &Result{
				Outcome:    OutcomeNonDescriptive,
				State:      state,
				Iterations: iterations,
				Orbits:     orbits,
				Quotient:   q,
				Generators: generators,
			}, nil
		}
		logger.Debug("offending core extracted", "orbits", core.OrbitIDs())

		switch e.Policy {
		case PolicyRecolor:
			recoloured, err := Recolor(e.Graph, core)
			if err != nil {
				return nil, err
			}
			if !recoloured {
				e.Stats.LogEnd()
				logger.Info("every core orbit already split, nothing left to break")
				return &Result{
					Outcome:    OutcomeNonDescriptive,
					State:      state,
					Iterations: iterations,
					Orbits:     orbits,
					Quotient:   q,
					Core:       core,
					Generators: generators,
				}, nil
			}
			// Recoloring invalidates the generators.
			generators, err = autom.Collect(ctx, e.Autom, e.Graph)
			if err != nil {
				return nil, err
			}
			powers = nil
			state = e.transition(logger, state, StateRepaired)
			state = e.transition(logger, state, StateGeneratorsComputed)

		case PolicyPowerGenerators:
			if powers == nil {
				powers = NewPowerState(generators)
			}
			generators, err = powers.PowerGenerators(core, orbits)
			if err != nil {
				return nil, err
			}
			state = e.transition(logger, state, StateRepaired)

		case PolicyMergeGenerators:
			generators, err = MergeGenerators(generators, core, orbits)
			if err != nil {
				return nil, err
			}
			state = e.transition(logger, state, StateRepaired)

		default:
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported repair policy %d", e.Policy)
		}
		iterations++
	}
}

// extractCore runs the configured core search. The MUS path consumes the
// problem's dictionary, which is fine since the formula is rebuilt next
// iteration.
func (e *Engine) extractCore(ctx context.Context, q *quotient.QuotientGraph, problem *encoding.Problem) (Core, error) {
	if e.MUS != nil {
		return MUSCore(ctx, e.Graph, q, problem, e.MUS, e.Oracle)
	}
	return BruteForceCore(ctx, e.Graph, q, e.Oracle, e.coreSize())
}

func (e *Engine) transition(logger *log.Logger, from, to State) State {
	logger.Debug("engine state", "from", from, "to", to)
	return to
}
