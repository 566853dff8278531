package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentgamelab/pdbench/internal/completion"
	"github.com/agentgamelab/pdbench/internal/config"
	"github.com/agentgamelab/pdbench/internal/core"
)

// roundPromptPlaceholders are the %-verb-free Go template tokens the round
// prompt file is expected to contain; LLM substitutes them with
// strings.Replace rather than text/template, since the substitution set is
// small and fixed.
const (
	tokenPersona          = "{persona_text}"
	tokenPayoffTable      = "{payoff_table_text}"
	tokenRoundNumber      = "{round_number}"
	tokenHorizonText      = "{horizon_text}"
	tokenCumulativeTotals = "{cumulative_totals_text}"
	tokenHistoryText      = "{history_text}"
)

// LLM is an agent that assembles a prompt from the observation, invokes a
// completion.Client, and parses the result with a bounded retry loop,
// falling back to Cooperate on total parse failure.
type LLM struct {
	config          config.LLMAgentConfig
	client          completion.Client
	systemPrompt    string
	roundPromptTmpl string
	personaText     string
	parser          *core.RetryParser

	lastPrompts     map[string]string
	lastRawResponse string
	parseAttempts   []core.ParseAttempt
}

// NewLLM constructs an LLM agent. basePath resolves the prompting paths
// (system_prompt_path, round_prompt_path, and the personas directory)
// relative to the experiment config's location.
func NewLLM(cfg config.LLMAgentConfig, client completion.Client, basePath string) (*LLM, error) {
	systemPrompt, err := loadPromptFile(basePath, cfg.Prompting.SystemPromptPath)
	if err != nil {
		return nil, err
	}
	roundPrompt, err := loadPromptFile(basePath, cfg.Prompting.RoundPromptPath)
	if err != nil {
		return nil, err
	}
	persona := loadPersona(basePath, cfg.Prompting.Persona)

	return &LLM{
		config:          cfg,
		client:          client,
		systemPrompt:    systemPrompt,
		roundPromptTmpl: roundPrompt,
		personaText:     persona,
		parser:          core.NewRetryParser(cfg.Output.Retry.MaxRetries),
	}, nil
}

func loadPromptFile(basePath, relPath string) (string, error) {
	if relPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Join(basePath, relPath))
	if err != nil {
		return "", fmt.Errorf("agent: load prompt file %s: %w", relPath, err)
	}
	return string(data), nil
}

func loadPersona(basePath, personaName string) string {
	if personaName == "" {
		return ""
	}
	path := filepath.Join(basePath, "configs", "prompts", "personas", personaName+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// Reset implements Agent.
func (l *LLM) Reset(seed *int64) {
	l.lastPrompts = nil
	l.lastRawResponse = ""
	l.parseAttempts = nil
}

func (l *LLM) buildRoundPrompt(obs core.Observation) string {
	cumulative := "Not shown."
	if l.config.Prompting.IncludeCumulativeTotals {
		cumulative = core.FormatCumulativeTotals(obs)
	}

	out := l.roundPromptTmpl
	out = strings.ReplaceAll(out, tokenPersona, l.personaText)
	out = strings.ReplaceAll(out, tokenPayoffTable, obs.PayoffMatrix.FormatTable())
	out = strings.ReplaceAll(out, tokenRoundNumber, fmt.Sprintf("%d", obs.RoundNumber))
	out = strings.ReplaceAll(out, tokenHorizonText, core.FormatHorizonText(obs))
	out = strings.ReplaceAll(out, tokenCumulativeTotals, cumulative)
	out = strings.ReplaceAll(out, tokenHistoryText, core.FormatHistoryText(obs))
	return out
}

// Act implements Agent.
func (l *LLM) Act(ctx context.Context, obs core.Observation) (core.Action, error) {
	roundPrompt := l.buildRoundPrompt(obs)

	l.lastPrompts = map[string]string{
		"system": l.systemPrompt,
		"round":  roundPrompt,
	}

	response, err := l.client.Complete(ctx, l.systemPrompt, roundPrompt, l.config.Temperature, l.config.MaxTokens)
	if err != nil {
		return 0, fmt.Errorf("agent: completion call failed: %w", err)
	}
	l.lastRawResponse = response

	retry := func(ctx context.Context, correction string) (string, error) {
		prompt := roundPrompt + "\n\n" + correction
		out, err := l.client.Complete(ctx, l.systemPrompt, prompt, l.config.Temperature, l.config.MaxTokens)
		if err != nil {
			return "", err
		}
		l.lastRawResponse = out
		return out, nil
	}

	action, parseErr := l.parser.ParseWithRetry(ctx, response, retry)
	l.parseAttempts = l.parser.Attempts()
	if parseErr != nil {
		var completionErr *core.CompletionError
		if errors.As(parseErr, &completionErr) {
			return 0, fmt.Errorf("agent: completion call failed during retry: %w", parseErr)
		}
		// Fixed cooperate-on-total-parse-failure fallback; not configurable.
		return core.Cooperate, nil
	}
	return action, nil
}

// LastPrompts implements Diagnostics.
func (l *LLM) LastPrompts() map[string]string { return l.lastPrompts }

// LastRawResponse implements Diagnostics.
func (l *LLM) LastRawResponse() string { return l.lastRawResponse }

// ParseAttempts implements Diagnostics.
func (l *LLM) ParseAttempts() []core.ParseAttempt { return l.parseAttempts }
