// Package engine wires together the leaf components the rest of
// internal/cspx implements (the transition provider, explorer, state
// store, checkers, minimizer and explainer) into the single operation
// the CLI actually calls: run one assertion from a validated module to a
// fully explained, minimized check.Outcome.
//
// Nothing in this package contains domain logic of its own; it is pure
// orchestration over the adapter/store/metadata-shaped packages it
// imports, without reimplementing any of them.
package engine

import (
	"errors"
	"fmt"

	"github.com/itdojp/cspx/internal/cspx/check"
	"github.com/itdojp/cspx/internal/cspx/explain"
	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
	"github.com/itdojp/cspx/internal/cspx/minimize"
	"github.com/itdojp/cspx/internal/cspx/store"
	"github.com/itdojp/cspx/internal/logger"
)

// StoreFactory builds a fresh Store for one exploration root, named by
// label (e.g. a process name, or "<name>:spec" / "<name>:impl" for a
// refinement pair that must not share a backing set). The returned store
// must not yet be open; Run calls Open and Close around its use.
type StoreFactory func(label string) (store.Store, error)

// MemoryStoreFactory is the default StoreFactory: a fresh in-memory set
// per root, discarded when the run completes.
func MemoryStoreFactory(metrics store.Metrics) StoreFactory {
	return func(string) (store.Store, error) {
		return store.NewMemoryStore(metrics), nil
	}
}

// Config bounds a single assertion run.
type Config struct {
	// Workers selects the explorer: 0 or 1 runs explorer.Run
	// single-threaded; >1 runs explorer.RunParallel with that worker
	// count. The two must (and do) agree on every observable.
	Workers int

	Limits explorer.Limits

	// NewStore is consulted once per exploration root. A nil NewStore
	// defaults to a fresh MemoryStoreFactory(nil).
	NewStore StoreFactory

	// SkipMinimize, when true, returns a Fail outcome's counterexample as
	// first found instead of running it through minimize.Minimize. The zero
	// value minimizes; set it only for callers that want the raw first-found
	// witness (e.g. a fast interactive check before a full minimizing pass).
	SkipMinimize bool
}

func (c Config) storeFactory() StoreFactory {
	if c.NewStore != nil {
		return c.NewStore
	}
	return MemoryStoreFactory(nil)
}

// Run executes a single property or refinement assertion against mod and
// returns the fully explained (and, unless disabled, minimized)
// check.Outcome. mod is assumed already validated by ir.Validate.
func Run(mod *ir.Module, a ir.Assertion, cfg Config) (check.Outcome, error) {
	provider := lts.NewProvider(mod)

	switch a.Kind {
	case ir.AssertionProperty:
		return runProperty(provider, mod, a, cfg)
	case ir.AssertionRefinement:
		return runRefinement(provider, mod, a, cfg)
	default:
		return check.Outcome{}, fmt.Errorf("engine: unsupported assertion kind %d", a.Kind)
	}
}

func runProperty(provider *lts.Provider, mod *ir.Module, a ir.Assertion, cfg Config) (check.Outcome, error) {
	initial, err := provider.Initial(a.Target)
	if err != nil {
		return invalidInputOutcome(err), nil
	}

	g, failOutcome, err := exploreGraph(provider, initial, a.Target, cfg)
	if failOutcome != nil {
		return *failOutcome, nil
	}
	if err != nil {
		return outcomeFromError(err), nil
	}

	stats := check.GraphStats(g)

	var res check.Outcome
	var oracle func([]lts.Label) bool
	switch a.Property {
	case ir.PropertyDeadlockFree:
		res = check.Deadlock(g, stats)
		oracle = check.DeadlockOracle(g)
	case ir.PropertyDivergenceFree:
		res = check.Divergence(g, stats)
		oracle = check.DivergenceOracle(g)
	case ir.PropertyDeterministic:
		res = check.Determinism(g, stats)
		oracle = check.DeterminismOracle(g)
	default:
		return check.Outcome{Kind: check.Unsupported, Stats: stats,
			Reason: &check.Reason{Kind: "unsupported_syntax", Message: fmt.Sprintf("unsupported property kind %d", a.Property)}}, nil
	}

	return finish(res, a, mod, oracle, cfg), nil
}

func runRefinement(provider *lts.Provider, mod *ir.Module, a ir.Assertion, cfg Config) (check.Outcome, error) {
	specInitial, err := provider.Initial(a.Spec)
	if err != nil {
		return invalidInputOutcome(err), nil
	}
	implInitial, err := provider.Initial(a.Impl)
	if err != nil {
		return invalidInputOutcome(err), nil
	}

	specGraph, failOutcome, err := exploreGraph(provider, specInitial, a.Spec+":spec", cfg)
	if failOutcome != nil {
		return *failOutcome, nil
	}
	if err != nil {
		return outcomeFromError(err), nil
	}

	implGraph, failOutcome, err := exploreGraph(provider, implInitial, a.Impl+":impl", cfg)
	if failOutcome != nil {
		return *failOutcome, nil
	}
	if err != nil {
		return outcomeFromError(err), nil
	}

	res := check.Refinement(specGraph, implGraph, a.Model)
	oracle := check.RefinementOracle(specGraph, implGraph, a.Model)
	return finish(res, a, mod, oracle, cfg), nil
}

// finish applies the minimizer (unless disabled) and the explainer to a
// Fail outcome, leaving every other Kind untouched.
func finish(res check.Outcome, a ir.Assertion, mod *ir.Module, oracle func([]lts.Label) bool, cfg Config) check.Outcome {
	if res.Kind != check.Fail || res.Counterexample == nil {
		return res
	}
	ce := res.Counterexample
	if !cfg.SkipMinimize && oracle != nil {
		ce = minimize.Minimize(ce, oracle)
	}
	res.Counterexample = explain.Explain(ce, a, mod)
	return res
}

// exploreGraph runs the configured explorer (single-threaded or
// deterministic-parallel per cfg.Workers) over one root, opening and
// closing a fresh store around it. A non-nil failOutcome means exploration
// itself was bounded out (timeout/out_of_memory) rather than completing;
// callers must check it before touching g or err.
func exploreGraph(provider *lts.Provider, initial *lts.Term, label string, cfg Config) (g *explorer.Graph, failOutcome *check.Outcome, err error) {
	st, err := cfg.storeFactory()(label)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: building store for %q: %w", label, err)
	}
	if err := st.Open(); err != nil {
		return nil, nil, fmt.Errorf("engine: opening store for %q: %w", label, err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("engine: closing store", "error", cerr, logger.KeyTarget, label)
		}
	}()

	var outcome explorer.Outcome
	if cfg.Workers > 1 {
		g, outcome, err = explorer.RunParallel(provider, initial, st, cfg.Limits, cfg.Workers)
	} else {
		g, outcome, err = explorer.Run(provider, initial, st, cfg.Limits, true)
	}
	if err != nil {
		return nil, nil, err
	}

	switch outcome {
	case explorer.Timeout:
		o := check.Outcome{Kind: check.Timeout, Reason: &check.Reason{Kind: "timeout", Message: "exploration exceeded the configured deadline"}}
		return nil, &o, nil
	case explorer.OutOfMemory:
		o := check.Outcome{Kind: check.OutOfMemory, Reason: &check.Reason{Kind: "out_of_memory", Message: "exploration exceeded the configured memory bound"}}
		return nil, &o, nil
	}
	return g, nil, nil
}

// invalidInputOutcome reports an assertion naming a process the module
// does not declare. ir.Validate rejects this shape up front, so reaching
// it here means the caller skipped validation; the failure still stays
// local to this check rather than poisoning the rest of the batch.
func invalidInputOutcome(err error) check.Outcome {
	return check.Outcome{Kind: check.Error, Reason: &check.Reason{Kind: "invalid_input", Message: err.Error()}}
}

// outcomeFromError classifies a transitionsOf failure: unguarded
// recursion / undeclared references surface as Unsupported, anything else
// as an internal Error.
func outcomeFromError(err error) check.Outcome {
	if errors.Is(err, lts.ErrUnsupported) {
		return check.Outcome{Kind: check.Unsupported, Reason: &check.Reason{Kind: "unsupported_syntax", Message: err.Error()}}
	}
	return check.Outcome{Kind: check.Error, Reason: &check.Reason{Kind: "internal_error", Message: err.Error()}}
}
