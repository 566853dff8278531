// Package runner orchestrates an experiment: instantiating agents for every
// (condition, replicate) pair, playing each game to its horizon, logging
// every round, and accumulating per-replicate metrics.
package runner

import (
	"context"
	"fmt"

	"github.com/agentgamelab/pdbench/internal/agent"
	"github.com/agentgamelab/pdbench/internal/config"
	"github.com/agentgamelab/pdbench/internal/core"
	"github.com/agentgamelab/pdbench/internal/registry"
	"github.com/agentgamelab/pdbench/internal/roundlog"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultHistoryWindow is the observation history window used by every
// replicate's transcript, matching the reference runner's fixed default.
const DefaultHistoryWindow = 10

// ExperimentRunner drives the conditions × replicates cross product
// described by an experiment document.
type ExperimentRunner struct {
	Doc         *config.ExperimentDocument
	Registry    *registry.Registry
	RoundLogger *roundlog.Logger
	Logger      zerolog.Logger

	// Parallelism bounds how many (condition, replicate) games run
	// concurrently. <= 0 means unbounded (one goroutine per game).
	Parallelism int
}

// New constructs an ExperimentRunner.
func New(doc *config.ExperimentDocument, reg *registry.Registry, logger *roundlog.Logger, zlog zerolog.Logger) *ExperimentRunner {
	return &ExperimentRunner{Doc: doc, Registry: reg, RoundLogger: logger, Logger: zlog}
}

// Run executes every condition's replicates and returns one ConditionMetrics
// row per (condition, replicate), in configuration order (conditions in
// document order, replicates in index order) regardless of completion order.
// Rounds within a single game are strictly sequential; replicates and
// conditions run concurrently, bounded by Parallelism.
func (r *ExperimentRunner) Run(ctx context.Context) ([]core.ConditionMetrics, error) {
	matrix, err := config.PayoffMatrixFromConfig(r.Doc.Game.PayoffMatrix)
	if err != nil {
		return nil, fmt.Errorf("runner: build payoff matrix: %w", err)
	}

	type job struct {
		condition  config.ConditionConfig
		replicate  int
		slotIndex  int
	}

	var jobs []job
	slot := 0
	for _, cond := range r.Doc.Experiment.Conditions {
		for rep := 0; rep < r.Doc.Experiment.Replicates; rep++ {
			jobs = append(jobs, job{condition: cond, replicate: rep, slotIndex: slot})
			slot++
		}
	}

	results := make([]core.ConditionMetrics, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	if r.Parallelism > 0 {
		g.SetLimit(r.Parallelism)
	}

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			metrics, err := r.runReplicate(gctx, matrix, j.condition, j.replicate)
			if err != nil {
				return fmt.Errorf("runner: condition %q replicate %d: %w", j.condition.Name, j.replicate, err)
			}
			results[j.slotIndex] = metrics
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ExperimentRunner) runReplicate(ctx context.Context, matrix *core.PayoffMatrix, cond config.ConditionConfig, replicate int) (core.ConditionMetrics, error) {
	baseSeed := r.Doc.Run.Seed + int64(replicate)
	seedA := baseSeed
	seedB := baseSeed + 1000
	seedHorizon := baseSeed

	agentA, err := r.Registry.CreateAgent(cond.AgentA, &seedA)
	if err != nil {
		return core.ConditionMetrics{}, fmt.Errorf("create agent_a: %w", err)
	}
	agentB, err := r.Registry.CreateAgent(cond.AgentB, &seedB)
	if err != nil {
		return core.ConditionMetrics{}, fmt.Errorf("create agent_b: %w", err)
	}
	agentA.Reset(&seedA)
	agentB.Reset(&seedB)

	horizon, err := buildHorizon(r.Doc.Horizon, &seedHorizon)
	if err != nil {
		return core.ConditionMetrics{}, err
	}

	var totalRounds *int
	if n, ok := horizon.TotalRounds(); ok {
		totalRounds = &n
	}
	transcript := core.NewTranscript(DefaultHistoryWindow, matrix, horizon.Kind(), totalRounds)

	var stopProb *float64
	if horizon.Kind() == core.HorizonGeometric {
		p := r.Doc.Horizon.StopProb
		stopProb = &p
	}

	rounds := make([]core.RoundRecord, 0)
	var cumA, cumB int
	roundIndex := 0

	for !horizon.ShouldStop(roundIndex) {
		select {
		case <-ctx.Done():
			return core.ConditionMetrics{}, ctx.Err()
		default:
		}

		obsA := transcript.ObservationFor(roundIndex+1, core.SideA)
		obsB := transcript.ObservationFor(roundIndex+1, core.SideB)

		actionA, err := agentA.Act(ctx, obsA)
		if err != nil {
			return core.ConditionMetrics{}, fmt.Errorf("agent_a act (round %d): %w", roundIndex, err)
		}
		actionB, err := agentB.Act(ctx, obsB)
		if err != nil {
			return core.ConditionMetrics{}, fmt.Errorf("agent_b act (round %d): %w", roundIndex, err)
		}

		payoffA, payoffB := matrix.Payoffs(actionA, actionB)
		cumA += payoffA
		cumB += payoffB

		record := core.RoundRecord{
			RoundIndex: roundIndex,
			ActionA:    actionA,
			ActionB:    actionB,
			PayoffA:    payoffA,
			PayoffB:    payoffB,
			CumPayoffA: cumA,
			CumPayoffB: cumB,
		}
		transcript.Append(record)
		rounds = append(rounds, record)

		if err := r.logRound(cond.Name, replicate, record, horizon, totalRounds, stopProb, agentA, agentB); err != nil {
			return core.ConditionMetrics{}, err
		}

		roundIndex++
	}

	return core.ComputeConditionMetrics(cond.Name, replicate, rounds, r.Doc.Metrics.Collapse.K, r.Doc.Metrics.Collapse.CooperationThreshold), nil
}

func (r *ExperimentRunner) logRound(condition string, replicate int, record core.RoundRecord, horizon core.Horizon, totalRounds *int, stopProb *float64, agentA, agentB agent.Agent) error {
	params := roundlog.LogRoundParams{
		RunID:           r.Doc.Run.RunID,
		Condition:       condition,
		Replicate:       replicate,
		RoundIndex:      record.RoundIndex,
		AgentAAction:    record.ActionA,
		AgentBAction:    record.ActionB,
		AgentAPayoff:    record.PayoffA,
		AgentBPayoff:    record.PayoffB,
		AgentACumPayoff: record.CumPayoffA,
		AgentBCumPayoff: record.CumPayoffB,
		HorizonType:     horizon.Kind(),
		FixedN:          totalRounds,
		StopProb:        stopProb,
	}

	if r.Doc.Run.StorePrompts {
		if prompts := collectPrompts(agentA, agentB); len(prompts) > 0 {
			params.Prompts = prompts
		}
	}
	if r.Doc.Run.StoreRawResponses {
		if responses := collectRawResponses(agentA, agentB); len(responses) > 0 {
			params.RawResponses = responses
		}
	}

	return r.RoundLogger.LogRound(params)
}

func collectPrompts(agentA, agentB agent.Agent) map[string]roundlog.Prompt {
	prompts := map[string]roundlog.Prompt{}
	if d, ok := agentA.(agent.Diagnostics); ok {
		if p := d.LastPrompts(); p != nil {
			prompts["agent_a"] = roundlog.Prompt{System: p["system"], Round: p["round"]}
		}
	}
	if d, ok := agentB.(agent.Diagnostics); ok {
		if p := d.LastPrompts(); p != nil {
			prompts["agent_b"] = roundlog.Prompt{System: p["system"], Round: p["round"]}
		}
	}
	return prompts
}

func collectRawResponses(agentA, agentB agent.Agent) map[string]string {
	responses := map[string]string{}
	if d, ok := agentA.(agent.Diagnostics); ok {
		if resp := d.LastRawResponse(); resp != "" {
			responses["agent_a"] = resp
		}
	}
	if d, ok := agentB.(agent.Diagnostics); ok {
		if resp := d.LastRawResponse(); resp != "" {
			responses["agent_b"] = resp
		}
	}
	return responses
}

func buildHorizon(cfg config.HorizonConfig, seed *int64) (core.Horizon, error) {
	switch cfg.Type {
	case "", "fixed":
		return core.NewFixedHorizon(cfg.NRounds), nil
	case "geometric":
		return core.NewGeometricHorizon(cfg.StopProb, seed, 0), nil
	default:
		return nil, fmt.Errorf("runner: unknown horizon type %q", cfg.Type)
	}
}
