// Package config defines the YAML-decodable structures for experiment
// configuration (the run/game/horizon/experiment/metrics document) and for
// individual agent-reference documents resolved by internal/registry.
package config

import (
	"fmt"
	"os"

	"github.com/agentgamelab/pdbench/internal/core"
	"gopkg.in/yaml.v3"
)

// RunConfig is the top-level "run" block: identity, seed, output location,
// and what gets persisted to the round log.
type RunConfig struct {
	RunID             string `yaml:"run_id"`
	Seed              int64  `yaml:"seed"`
	OutputDir         string `yaml:"output_dir"`
	StorePrompts      bool   `yaml:"store_prompts"`
	StoreRawResponses bool   `yaml:"store_raw_responses"`
}

// PayoffEntry is one row of a YAML payoff matrix: {C: [a,b], D: [a,b]}.
type PayoffEntry struct {
	C []int `yaml:"C"`
	D []int `yaml:"D"`
}

// PayoffMatrixConfig decodes the nested {C: {...}, D: {...}} payoff table.
type PayoffMatrixConfig struct {
	C PayoffEntry `yaml:"C"`
	D PayoffEntry `yaml:"D"`
}

// GameConfig is the "game" block: a name and its payoff matrix.
type GameConfig struct {
	Name         string             `yaml:"name"`
	PayoffMatrix PayoffMatrixConfig `yaml:"payoff_matrix"`
}

// PayoffMatrixFromConfig builds a core.PayoffMatrix from a decoded
// payoff_matrix block.
func PayoffMatrixFromConfig(cfg PayoffMatrixConfig) (*core.PayoffMatrix, error) {
	raw := map[string]map[string][]int{
		"C": {"C": cfg.C.C, "D": cfg.C.D},
		"D": {"C": cfg.D.C, "D": cfg.D.D},
	}
	return core.PayoffMatrixFromMap(raw)
}

// HorizonConfig is the "horizon" block.
type HorizonConfig struct {
	Type     string  `yaml:"type"` // "fixed" | "geometric"
	NRounds  int     `yaml:"n_rounds"`
	StopProb float64 `yaml:"stop_prob"`
}

// AgentRef names an agent-reference document on disk plus a tree of
// overrides to deep-merge on top of it.
type AgentRef struct {
	Ref       string                 `yaml:"ref"`
	Overrides map[string]interface{} `yaml:"overrides"`
}

// ConditionConfig is one named pairing of agent_a against agent_b.
type ConditionConfig struct {
	Name   string   `yaml:"name"`
	AgentA AgentRef `yaml:"agent_a"`
	AgentB AgentRef `yaml:"agent_b"`
}

// ExperimentConfig is the "experiment" block: replicate count and the
// ordered list of conditions.
type ExperimentConfig struct {
	Replicates int               `yaml:"replicates"`
	Conditions []ConditionConfig `yaml:"conditions"`
}

// CollapseConfig parameterizes the time-to-collapse metric.
type CollapseConfig struct {
	K                    int     `yaml:"k"`
	CooperationThreshold float64 `yaml:"cooperation_threshold"`
}

// MetricsConfig is the "metrics" block.
type MetricsConfig struct {
	Collapse CollapseConfig `yaml:"collapse"`
	Report   []string       `yaml:"report"`
}

// ExperimentDocument is the full top-level experiment configuration file.
type ExperimentDocument struct {
	Run        RunConfig        `yaml:"run"`
	Game       GameConfig       `yaml:"game"`
	Horizon    HorizonConfig    `yaml:"horizon"`
	Experiment ExperimentConfig `yaml:"experiment"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// LoadExperimentDocument reads and decodes an experiment document from path.
func LoadExperimentDocument(path string) (*ExperimentDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read experiment document %s: %w", path, err)
	}
	var doc ExperimentDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: decode experiment document %s: %w", path, err)
	}
	return &doc, nil
}
