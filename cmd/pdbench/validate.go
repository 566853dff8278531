package main

import (
	"fmt"
	"path/filepath"

	"github.com/agentgamelab/pdbench/cmd/pdbench/shared"
	"github.com/agentgamelab/pdbench/internal/config"
	"github.com/agentgamelab/pdbench/internal/registry"
)

// ValidateCmd decodes an experiment document and dry-constructs every
// condition's agents (with a nil seed) so a broken agent reference, a
// missing prompt file, or an unresolvable CrewAI persona key is caught
// before a run starts rather than mid-replicate.
type ValidateCmd struct {
	Config string `arg:"" name:"config" help:"Path to the experiment document (YAML)"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ValidateCmd) Run() error {
	progress := shared.SetupProgressLogger(c.Debug)
	zlog := shared.SetupStructuredLogger(c.Debug)

	doc, err := config.LoadExperimentDocument(c.Config)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if doc.Experiment.Replicates <= 0 {
		return fmt.Errorf("validate: experiment.replicates must be positive, got %d", doc.Experiment.Replicates)
	}
	if len(doc.Experiment.Conditions) == 0 {
		return fmt.Errorf("validate: experiment.conditions must not be empty")
	}
	if _, err := config.PayoffMatrixFromConfig(doc.Game.PayoffMatrix); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	basePath := filepath.Dir(c.Config)
	reg := registry.New(basePath, zlog)

	failures := 0
	for _, cond := range doc.Experiment.Conditions {
		if _, err := reg.CreateAgent(cond.AgentA, nil); err != nil {
			progress.Error("agent_a failed to construct", "condition", cond.Name, "ref", cond.AgentA.Ref, "err", err)
			failures++
		}
		if _, err := reg.CreateAgent(cond.AgentB, nil); err != nil {
			progress.Error("agent_b failed to construct", "condition", cond.Name, "ref", cond.AgentB.Ref, "err", err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("validate: %d agent(s) failed to construct", failures)
	}

	progress.Info("config is valid", "conditions", len(doc.Experiment.Conditions), "replicates", doc.Experiment.Replicates)
	return nil
}
