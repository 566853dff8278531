package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyParams holds the parameterized policy agents' tunables.
type PolicyParams struct {
	GenerousProb     float64 `yaml:"generous_prob"`
	WSLSWinThreshold int     `yaml:"wsls_win_threshold"`
}

// PolicyAgentConfig is an agent-reference document with type: policy.
type PolicyAgentConfig struct {
	Type   string       `yaml:"type"`
	Policy string       `yaml:"policy"`
	Params PolicyParams `yaml:"params"`
}

// MockConfig mirrors internal/completion.MockConfig in YAML form.
type MockConfig struct {
	Mode            string   `yaml:"mode"`
	FixedOutput     string   `yaml:"fixed_output"`
	ScriptedOutputs []string `yaml:"scripted_outputs"`
}

// PromptingConfig controls prompt assembly for LLM-backed agents.
type PromptingConfig struct {
	SystemPromptPath        string `yaml:"system_prompt_path"`
	RoundPromptPath         string `yaml:"round_prompt_path"`
	Persona                 string `yaml:"persona"`
	IncludeCumulativeTotals bool   `yaml:"include_cumulative_totals"`
}

// RetryConfig controls the bounded action-parser retry loop.
type RetryConfig struct {
	MaxRetries int `yaml:"max_retries"`
}

// OutputConfig wraps the retry policy applied to an LLM agent's completions.
type OutputConfig struct {
	Retry RetryConfig `yaml:"retry"`
}

// LLMAgentConfig is an agent-reference document with type: llm.
type LLMAgentConfig struct {
	Type        string           `yaml:"type"`
	Provider    string           `yaml:"provider"`
	Model       string           `yaml:"model"`
	Temperature float64          `yaml:"temperature"`
	MaxTokens   int              `yaml:"max_tokens"`
	Mock        MockConfig      `yaml:"mock"`
	Prompting   PromptingConfig `yaml:"prompting"`
	Output      OutputConfig    `yaml:"output"`
}

// CrewAIAgentConfig is an agent-reference document with type: crewai. It
// embeds everything LLMAgentConfig has plus a persona profile resolved
// either inline (Role/Goal/Backstory) or from a shared file (AgentsFile +
// AgentKey).
type CrewAIAgentConfig struct {
	Type        string          `yaml:"type"`
	Provider    string          `yaml:"provider"`
	Model       string          `yaml:"model"`
	Temperature float64         `yaml:"temperature"`
	MaxTokens   int             `yaml:"max_tokens"`
	Mock        MockConfig      `yaml:"mock"`
	Prompting   PromptingConfig `yaml:"prompting"`
	Output      OutputConfig    `yaml:"output"`

	Role      *string `yaml:"role"`
	Goal      *string `yaml:"goal"`
	Backstory *string `yaml:"backstory"`

	AgentsFile *string `yaml:"agents_file"`
	AgentKey   *string `yaml:"agent_key"`
}

// AsLLMAgentConfig strips the persona fields, yielding the plain
// LLMAgentConfig the CrewAI constructor hands off to the underlying LLM agent.
func (c CrewAIAgentConfig) AsLLMAgentConfig() LLMAgentConfig {
	return LLMAgentConfig{
		Type:        "llm",
		Provider:    c.Provider,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Mock:        c.Mock,
		Prompting:   c.Prompting,
		Output:      c.Output,
	}
}

// AgentProfile is one named entry of a shared agents_file: a role, goal, and
// backstory used to assemble a CrewAI agent's persona text.
type AgentProfile struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// LoadAgentProfiles reads a shared agents_file (a YAML map of agent_key ->
// AgentProfile).
func LoadAgentProfiles(path string) (map[string]AgentProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read agents file %s: %w", path, err)
	}
	var profiles map[string]AgentProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("config: decode agents file %s: %w", path, err)
	}
	return profiles, nil
}

// RawAgentDocument is the minimal decode used by the registry to read the
// "type" tag before dispatching to a type-specific struct.
type RawAgentDocument struct {
	Type string `yaml:"type"`
}
