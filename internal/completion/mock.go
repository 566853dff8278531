package completion

import (
	"context"

	"github.com/agentgamelab/pdbench/internal/core"
)

// MockMode selects how Mock picks its next output.
type MockMode string

const (
	// ModeFixed always returns FixedOutput.
	ModeFixed MockMode = "fixed"
	// ModeScripted cycles through ScriptedOutputs in order, wrapping around.
	ModeScripted MockMode = "scripted"
)

// MockConfig configures a Mock provider.
type MockConfig struct {
	Mode            MockMode
	FixedOutput     string
	ScriptedOutputs []string
}

// DefaultMockConfig is ModeFixed returning "C", matching the cooperate-first
// default used when no LLM backend is configured.
func DefaultMockConfig() MockConfig {
	return MockConfig{Mode: ModeFixed, FixedOutput: "C"}
}

// Mock is a deterministic, seedable Client for tests and policy-equivalent
// runs. It is stateful (call count, scripted cursor) and must not be shared
// across concurrent agents; each agent owns its own Mock instance.
type Mock struct {
	config        MockConfig
	rng           *core.RNG
	callCount     int
	scriptedIndex int
}

// NewMock constructs a Mock provider. A zero-value config selects
// DefaultMockConfig.
func NewMock(config MockConfig, seed *int64) *Mock {
	if config.Mode == "" {
		config = DefaultMockConfig()
	}
	return &Mock{config: config, rng: core.NewRNG(seed)}
}

// Reset rewinds call count, scripted cursor, and the RNG to seed.
func (m *Mock) Reset(seed *int64) {
	m.rng.Reset(seed)
	m.callCount = 0
	m.scriptedIndex = 0
}

// Complete implements Client. temperature and maxTokens are accepted but
// unused: the mock's output is a pure function of its mode and call history.
func (m *Mock) Complete(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
	m.callCount++

	switch m.config.Mode {
	case ModeScripted:
		if len(m.config.ScriptedOutputs) == 0 {
			return m.config.FixedOutput, nil
		}
		out := m.config.ScriptedOutputs[m.scriptedIndex%len(m.config.ScriptedOutputs)]
		m.scriptedIndex++
		return out, nil
	default:
		return m.config.FixedOutput, nil
	}
}

// CallCount returns the number of Complete calls since construction or the
// last Reset.
func (m *Mock) CallCount() int {
	return m.callCount
}
