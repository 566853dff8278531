package main

import (
	"fmt"

	"github.com/agentgamelab/pdbench/cmd/pdbench/shared"
	"github.com/agentgamelab/pdbench/internal/aggregate"
	"github.com/agentgamelab/pdbench/internal/core"
)

// AggregateCmd rebuilds aggregates.parquet from an existing rounds.jsonl
// without replaying any games, useful after changing collapse parameters or
// recovering from a run that was interrupted before its final write.
type AggregateCmd struct {
	OutputDir         string  `arg:"" name:"output-dir" help:"Directory containing rounds.jsonl"`
	CollapseK         int     `kong:"default='10',help='Window size for the time-to-collapse metric'"`
	CollapseThreshold float64 `kong:"default='0.2',name='collapse-threshold',help='Joint cooperation-rate threshold for collapse'"`
	Debug             bool    `kong:"help='Enable debug logging'"`
}

func (c *AggregateCmd) Run() error {
	progress := shared.SetupProgressLogger(c.Debug)
	zlog := shared.SetupStructuredLogger(c.Debug)

	collapseK := c.CollapseK
	if collapseK <= 0 {
		collapseK = core.DefaultCollapseWindow
	}
	collapseThreshold := c.CollapseThreshold

	writer := aggregate.NewWriter(zlog)
	if err := writer.RecomputeFromRoundLog(c.OutputDir, collapseK, collapseThreshold); err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	progress.Info("recomputed aggregates", "output_dir", c.OutputDir)
	return nil
}
