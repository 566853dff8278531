// Package registry resolves an agent reference (a config document path plus
// a tree of overrides) into a constructed agent.Agent, dispatching on the
// document's "type" tag.
package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentgamelab/pdbench/internal/agent"
	"github.com/agentgamelab/pdbench/internal/completion"
	"github.com/agentgamelab/pdbench/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrUnknownAgentType is returned when a resolved document's "type" tag
// doesn't match any known agent kind.
var ErrUnknownAgentType = fmt.Errorf("registry: unknown agent type")

// Registry constructs agents from AgentRef values, resolving each ref's YAML
// document relative to ConfigBasePath/configs/.
type Registry struct {
	ConfigBasePath string
	Logger         zerolog.Logger
}

// New constructs a Registry rooted at configBasePath (the directory
// containing the experiment document, whose "configs/" subdirectory holds
// agent-reference documents).
func New(configBasePath string, logger zerolog.Logger) *Registry {
	return &Registry{ConfigBasePath: configBasePath, Logger: logger}
}

// CreateAgent loads ref's document, deep-merges ref.Overrides on top of it,
// and dispatches on the merged document's type tag to construct the agent.
// seed seeds any RNG the agent owns (policy parameters, or the mock
// completion provider for LLM/CrewAI agents); nil means nondeterministic.
func (r *Registry) CreateAgent(ref config.AgentRef, seed *int64) (agent.Agent, error) {
	path := filepath.Join(r.ConfigBasePath, "configs", ref.Ref)
	raw, err := loadYAMLMap(path)
	if err != nil {
		return nil, err
	}
	merged := config.DeepMergeOverrides(raw, ref.Overrides)

	typeTag, _ := merged["type"].(string)

	r.Logger.Debug().Str("ref", ref.Ref).Str("type", typeTag).Msg("constructing agent")

	switch typeTag {
	case "policy":
		return r.createPolicyAgent(merged, seed)
	case "llm":
		return r.createLLMAgent(merged, seed)
	case "crewai":
		return r.createCrewAIAgent(merged, seed)
	default:
		return nil, fmt.Errorf("%w: %q (from %s)", ErrUnknownAgentType, typeTag, ref.Ref)
	}
}

func (r *Registry) createPolicyAgent(merged map[string]interface{}, seed *int64) (agent.Agent, error) {
	cfg, err := decodeInto[config.PolicyAgentConfig](merged)
	if err != nil {
		return nil, err
	}
	return agent.NewPolicy(agent.PolicyName(cfg.Policy), cfg.Params.GenerousProb, cfg.Params.WSLSWinThreshold, seed)
}

func (r *Registry) createLLMAgent(merged map[string]interface{}, seed *int64) (agent.Agent, error) {
	cfg, err := decodeInto[config.LLMAgentConfig](merged)
	if err != nil {
		return nil, err
	}
	client, err := r.buildCompletionClient(cfg.Provider, cfg.Model, cfg.Mock, seed)
	if err != nil {
		return nil, err
	}
	return agent.NewLLM(cfg, client, r.ConfigBasePath)
}

func (r *Registry) createCrewAIAgent(merged map[string]interface{}, seed *int64) (agent.Agent, error) {
	cfg, err := decodeInto[config.CrewAIAgentConfig](merged)
	if err != nil {
		return nil, err
	}
	client, err := r.buildCompletionClient(cfg.Provider, cfg.Model, cfg.Mock, seed)
	if err != nil {
		return nil, err
	}
	return agent.NewCrewAI(cfg, client, r.ConfigBasePath)
}

func (r *Registry) buildCompletionClient(provider, model string, mockCfg config.MockConfig, seed *int64) (completion.Client, error) {
	switch provider {
	case "", "mock":
		return completion.NewMock(completion.MockConfig{
			Mode:            completion.MockMode(mockCfg.Mode),
			FixedOutput:     mockCfg.FixedOutput,
			ScriptedOutputs: mockCfg.ScriptedOutputs,
		}, seed), nil
	case "openai":
		return completion.NewOpenAI("", model, r.Logger)
	default:
		return nil, fmt.Errorf("registry: unsupported completion provider %q", provider)
	}
}

func loadYAMLMap(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read agent document %s: %w", path, err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("registry: decode agent document %s: %w", path, err)
	}
	return raw, nil
}

// decodeInto re-marshals a generic YAML-decoded map back through yaml so it
// lands in a typed struct, reusing the struct tags already defined in
// internal/config rather than hand-writing a second decode path.
func decodeInto[T any](merged map[string]interface{}) (T, error) {
	var out T
	data, err := yaml.Marshal(merged)
	if err != nil {
		return out, fmt.Errorf("registry: re-encode merged document: %w", err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("registry: decode merged document: %w", err)
	}
	return out, nil
}
