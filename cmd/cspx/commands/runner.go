package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itdojp/cspx/internal/cli/output"
	"github.com/itdojp/cspx/internal/cspx/check"
	"github.com/itdojp/cspx/internal/cspx/engine"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/metrics"
	_ "github.com/itdojp/cspx/internal/cspx/metrics/prometheus" // registers the Prometheus store-metrics backend
	"github.com/itdojp/cspx/internal/cspx/result"
	"github.com/itdojp/cspx/internal/cspx/store"
	"github.com/itdojp/cspx/internal/logger"
	"github.com/itdojp/cspx/internal/telemetry"
	"github.com/itdojp/cspx/pkg/config"
)

// loadModule loads and validates the IR document named by the --input
// flag, surfacing a load failure and a validation failure alike as errors
// this command cannot recover from: neither a missing file nor a
// malformed module is something a single check owns.
func loadModule() (*ir.Module, error) {
	if inputFile == "" {
		return nil, fmt.Errorf("--input is required")
	}
	mod, err := ir.LoadFile(inputFile)
	if err != nil {
		return nil, err
	}
	if err := ir.Validate(mod); err != nil {
		return nil, err
	}
	return mod, nil
}

// inputDigest computes the sha256 of the IR document, for the result
// document's Inputs entry.
func inputDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// loadRunConfig resolves pkg/config.Config from the --config flag and the
// command's own flag set, so CSPX_* env vars and a config file both layer
// under whatever flags cobra bound for this invocation.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(GetConfigFile(), cmd.Flags())
}

// runnerEnv bundles the ambient services one invocation needs: logging,
// telemetry, and a per-invocation run id. shutdown must be deferred.
type runnerEnv struct {
	runID    string
	shutdown func()
}

// setupEnv initializes logging, telemetry, and (if enabled) the Prometheus
// registry for cfg.
func setupEnv(ctx context.Context, cfg *config.Config) (*runnerEnv, error) {
	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	telemetryShutdown, err := telemetry.Init(ctx, cfg.TelemetryConfig(Version))
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	return &runnerEnv{
		runID: uuid.NewString(),
		shutdown: func() {
			if err := telemetryShutdown(context.Background()); err != nil {
				logger.Warn("telemetry shutdown error", "error", err)
			}
		},
	}, nil
}

// storeMetrics resolves the engine's store.Metrics argument: nil when
// metrics are disabled or no Prometheus backend registered, otherwise the
// live bundle. Kept as a plain store.Metrics (not metrics.StoreMetrics) so
// the nil check below compares against a true nil interface rather than a
// non-nil interface wrapping a nil pointer.
func storeMetrics() store.Metrics {
	if sm := metrics.NewStoreMetrics(); sm != nil {
		return sm
	}
	return nil
}

// runAssertions runs every assertion in mod against engine.Run, assembles
// the result document, writes it (and the optional summary record), and
// returns the process exit code per the document's aggregation precedence.
func runAssertions(cmd *cobra.Command, mod *ir.Module, inputPath string, assertions []ir.Assertion) (int, error) {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return result.ExitCode(result.StatusError), err
	}

	ctx, span := telemetry.StartSpan(cmd.Context(), "cspx.run")
	defer span.End()

	env, err := setupEnv(ctx, cfg)
	if err != nil {
		return result.ExitCode(result.StatusError), err
	}
	defer env.shutdown()

	digest, err := inputDigest(inputPath)
	if err != nil {
		return result.ExitCode(result.StatusError), err
	}

	factory, err := config.NewStoreFactory(cfg.Store, storeMetrics())
	if err != nil {
		return result.ExitCode(result.StatusError), err
	}

	started := time.Now()
	checks := make([]result.Check, 0, len(assertions)+1)
	checks = append(checks, typecheckEntry(mod))

	for _, a := range assertions {
		checkCtx, checkSpan := telemetry.StartSpan(ctx, "cspx.assertion")
		outcome, err := engine.Run(mod, a, engine.Config{
			Workers:  cfg.Run.Workers,
			Limits:   cfg.Limits(time.Now()),
			NewStore: factory,
		})
		if err != nil {
			telemetry.RecordError(checkCtx, err)
			checkSpan.End()
			return result.ExitCode(result.StatusError), err
		}
		checkSpan.End()
		checks = append(checks, checkEntry(a, outcome))
	}

	doc := buildDocument(cmd, cfg, checks, []result.Input{{Path: inputPath, SHA256: digest}}, started)

	if err := writeDocument(doc); err != nil {
		return result.ExitCode(result.StatusError), err
	}
	if summaryFile != "" {
		if err := writeSummary(result.NewSummary(backendMode(cfg), doc.Status)); err != nil {
			return result.ExitCode(result.StatusError), err
		}
	}
	if f, ferr := output.ParseFormat(format); ferr == nil && f == output.FormatTable {
		_ = output.PrintTable(os.Stdout, tableRows(checks))
	}

	logger.InfoCtx(ctx, "verification finished", "status", string(doc.Status), "checks", len(checks), "run_id", env.runID)
	return doc.ExitCode, nil
}

func backendMode(cfg *config.Config) string {
	if cfg.Run.Workers > 1 {
		return "cspx:parallel"
	}
	return "cspx:serial"
}

func typecheckEntry(mod *ir.Module) result.Check {
	return result.Check{
		Name:   "typecheck",
		Target: mod.Entry,
		Status: result.StatusPass,
		Stats:  result.Stats{},
	}
}

func checkEntry(a ir.Assertion, outcome check.Outcome) result.Check {
	name := "check"
	target := a.Target
	var model *string
	if a.Kind == ir.AssertionRefinement {
		name = "refine"
		target = a.Spec + "::" + a.Impl
		m := a.Model.String()
		model = &m
	}
	return result.Check{
		Name:           name,
		Model:          model,
		Target:         target,
		Status:         result.StatusFromOutcome(outcome.Kind),
		Reason:         result.FromReason(outcome.Reason),
		Counterexample: result.FromCounterexample(outcome.Counterexample),
		Stats:          result.FromStats(outcome.Stats),
	}
}

func buildDocument(cmd *cobra.Command, cfg *config.Config, checks []result.Check, inputs []result.Input, started time.Time) *result.Document {
	finished := time.Now()
	status := result.Aggregate(checks)
	return &result.Document{
		SchemaVersion: "0.1",
		Tool:          result.Tool{Name: "cspx", Version: Version, GitSHA: Commit},
		Invocation: result.Invocation{
			Command:   cmd.CommandPath(),
			Args:      os.Args[1:],
			Format:    format,
			TimeoutMs: cfg.Run.Timeout.Milliseconds(),
			MemoryMB:  int64(cfg.Run.MaxMemory.Uint64() / (1024 * 1024)),
			Seed:      cfg.Run.Seed,
		},
		Inputs:     inputs,
		Status:     status,
		ExitCode:   result.ExitCode(status),
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		DurationMs: finished.Sub(started).Milliseconds(),
		Checks:     checks,
	}
}

func writeDocument(doc *result.Document) error {
	if outputFile == "" {
		return output.PrintJSON(os.Stdout, doc)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("writing result document: %w", err)
	}
	defer f.Close()
	return output.PrintJSON(f, doc)
}

func writeSummary(s result.Summary) error {
	f, err := os.Create(summaryFile)
	if err != nil {
		return fmt.Errorf("writing summary record: %w", err)
	}
	defer f.Close()
	return output.PrintJSON(f, s)
}

func tableRows(checks []result.Check) output.CheckTable {
	rows := make(output.CheckTable, 0, len(checks))
	for _, c := range checks {
		model := ""
		if c.Model != nil {
			model = *c.Model
		}
		reason := ""
		if c.Reason != nil {
			reason = c.Reason.Message
		}
		rows = append(rows, output.CheckRow{
			Name:   c.Name,
			Model:  model,
			Target: c.Target,
			Status: string(c.Status),
			States: c.Stats.States,
			Trans:  c.Stats.Transitions,
			Reason: reason,
		})
	}
	return rows
}
