package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentgamelab/pdbench/internal/completion"
	"github.com/agentgamelab/pdbench/internal/config"
	"github.com/agentgamelab/pdbench/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failAfterFirstClient returns "maybe" (unparseable) on the first call, then
// errors on every subsequent call, simulating a completion adapter that goes
// down mid-retry.
type failAfterFirstClient struct {
	calls int
	err   error
}

func (c *failAfterFirstClient) Complete(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
	c.calls++
	if c.calls == 1 {
		return "maybe", nil
	}
	return "", c.err
}

func writePromptFiles(t *testing.T, dir string) (systemPath, roundPath string) {
	t.Helper()
	systemPath = "system.txt"
	roundPath = "round.txt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, systemPath), []byte("You are playing an iterated game."), 0o644))
	roundTmpl := "{persona_text}\n{payoff_table_text}\nRound {round_number}{horizon_text}\n{cumulative_totals_text}\n{history_text}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, roundPath), []byte(roundTmpl), 0o644))
	return systemPath, roundPath
}

func TestLLMActParsesSuccessfully(t *testing.T) {
	dir := t.TempDir()
	systemPath, roundPath := writePromptFiles(t, dir)

	cfg := config.LLMAgentConfig{
		Temperature: 0.2,
		MaxTokens:   8,
		Prompting: config.PromptingConfig{
			SystemPromptPath: systemPath,
			RoundPromptPath:  roundPath,
		},
		Output: config.OutputConfig{Retry: config.RetryConfig{MaxRetries: 2}},
	}
	client := completion.NewMock(completion.MockConfig{Mode: completion.ModeFixed, FixedOutput: "D"}, nil)

	llm, err := NewLLM(cfg, client, dir)
	require.NoError(t, err)

	matrix := core.DefaultPayoffMatrix()
	obs := core.Observation{RoundNumber: 1, PayoffMatrix: matrix, HorizonType: core.HorizonFixed, TotalRounds: intPtr(5)}

	action, err := llm.Act(context.Background(), obs)
	require.NoError(t, err)
	assert.Equal(t, core.Defect, action)
	assert.Equal(t, "D", llm.LastRawResponse())
	require.NotNil(t, llm.LastPrompts())
	assert.Contains(t, llm.LastPrompts()["round"], "Round 1")
}

func TestLLMActFallsBackToCooperateAfterExhaustingRetries(t *testing.T) {
	dir := t.TempDir()
	systemPath, roundPath := writePromptFiles(t, dir)

	cfg := config.LLMAgentConfig{
		Prompting: config.PromptingConfig{SystemPromptPath: systemPath, RoundPromptPath: roundPath},
		Output:    config.OutputConfig{Retry: config.RetryConfig{MaxRetries: 2}},
	}
	client := completion.NewMock(completion.MockConfig{Mode: completion.ModeFixed, FixedOutput: "maybe"}, nil)

	llm, err := NewLLM(cfg, client, dir)
	require.NoError(t, err)

	matrix := core.DefaultPayoffMatrix()
	obs := core.Observation{RoundNumber: 1, PayoffMatrix: matrix}

	action, err := llm.Act(context.Background(), obs)
	require.NoError(t, err, "total parse failure must not surface as an error")
	assert.Equal(t, core.Cooperate, action)
	assert.Len(t, llm.ParseAttempts(), 3, "1 initial + 2 retries, all failing")
	for _, attempt := range llm.ParseAttempts() {
		assert.False(t, attempt.Success)
	}
}

func TestLLMActPropagatesCompletionAdapterFailureDuringRetry(t *testing.T) {
	dir := t.TempDir()
	systemPath, roundPath := writePromptFiles(t, dir)

	cfg := config.LLMAgentConfig{
		Prompting: config.PromptingConfig{SystemPromptPath: systemPath, RoundPromptPath: roundPath},
		Output:    config.OutputConfig{Retry: config.RetryConfig{MaxRetries: 2}},
	}
	boom := errors.New("connection reset")
	client := &failAfterFirstClient{err: boom}

	llm, err := NewLLM(cfg, client, dir)
	require.NoError(t, err)

	matrix := core.DefaultPayoffMatrix()
	obs := core.Observation{RoundNumber: 1, PayoffMatrix: matrix}

	_, err = llm.Act(context.Background(), obs)
	require.Error(t, err, "a completion adapter failure during retry must abort, not fall back to Cooperate")
	assert.ErrorIs(t, err, boom)
}

func TestLLMResetClearsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	systemPath, roundPath := writePromptFiles(t, dir)
	cfg := config.LLMAgentConfig{
		Prompting: config.PromptingConfig{SystemPromptPath: systemPath, RoundPromptPath: roundPath},
	}
	client := completion.NewMock(completion.MockConfig{Mode: completion.ModeFixed, FixedOutput: "C"}, nil)

	llm, err := NewLLM(cfg, client, dir)
	require.NoError(t, err)

	_, _ = llm.Act(context.Background(), core.Observation{PayoffMatrix: core.DefaultPayoffMatrix()})
	assert.NotEmpty(t, llm.LastRawResponse())

	llm.Reset(nil)
	assert.Empty(t, llm.LastRawResponse())
	assert.Nil(t, llm.LastPrompts())
	assert.Nil(t, llm.ParseAttempts())
}

func intPtr(n int) *int { return &n }
