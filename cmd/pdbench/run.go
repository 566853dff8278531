package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/agentgamelab/pdbench/cmd/pdbench/shared"
	"github.com/agentgamelab/pdbench/internal/aggregate"
	"github.com/agentgamelab/pdbench/internal/config"
	"github.com/agentgamelab/pdbench/internal/manifest"
	"github.com/agentgamelab/pdbench/internal/registry"
	"github.com/agentgamelab/pdbench/internal/roundlog"
	"github.com/agentgamelab/pdbench/internal/runner"
	"github.com/coder/quartz"
)

// RunCmd executes an experiment end to end: writes run_manifest.json, plays
// every (condition, replicate) game while appending rounds.jsonl, then
// writes aggregates.parquet.
type RunCmd struct {
	Config      string `arg:"" name:"config" help:"Path to the experiment document (YAML)"`
	Parallelism int    `kong:"default='0',help='Max concurrent games (0 = unbounded)'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *RunCmd) Run() error {
	progress := shared.SetupProgressLogger(c.Debug)
	zlog := shared.SetupStructuredLogger(c.Debug)

	doc, err := config.LoadExperimentDocument(c.Config)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if doc.Run.OutputDir == "" {
		return fmt.Errorf("run: run.output_dir must be set")
	}

	clock := quartz.NewReal()

	if _, err := manifest.Write(doc.Run.OutputDir, doc.Run.RunID, doc, clock); err != nil {
		return fmt.Errorf("run: write manifest: %w", err)
	}

	rl, err := roundlog.New(doc.Run.OutputDir, clock, zlog)
	if err != nil {
		return fmt.Errorf("run: open round log: %w", err)
	}
	defer rl.Close()

	basePath := filepath.Dir(c.Config)
	reg := registry.New(basePath, zlog)

	rn := runner.New(doc, reg, rl, zlog)
	rn.Parallelism = c.Parallelism

	progress.Info("starting experiment",
		"conditions", len(doc.Experiment.Conditions),
		"replicates", doc.Experiment.Replicates,
		"output_dir", doc.Run.OutputDir,
	)

	start := time.Now()
	metrics, err := rn.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	writer := aggregate.NewWriter(zlog)
	if err := writer.WriteAggregates(doc.Run.OutputDir, metrics); err != nil {
		return fmt.Errorf("run: write aggregates: %w", err)
	}

	progress.Info("experiment complete",
		"replicate_games", len(metrics),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}
