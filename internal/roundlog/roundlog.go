// Package roundlog writes the append-only rounds.jsonl event log: one JSON
// object per round, single-writer, one fsync-free append per call.
package roundlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agentgamelab/pdbench/internal/core"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// RoundEvent is one JSON line of rounds.jsonl. Field names and presence
// match the logged event schema exactly: required fields always present,
// optional fields only when configured.
type RoundEvent struct {
	RunID           string            `json:"run_id"`
	Condition       string            `json:"condition"`
	Replicate       int               `json:"replicate"`
	RoundIndex      int               `json:"round_index"`
	AgentAAction    string            `json:"agent_a_action"`
	AgentBAction    string            `json:"agent_b_action"`
	AgentAPayoff    int               `json:"agent_a_payoff"`
	AgentBPayoff    int               `json:"agent_b_payoff"`
	AgentACumPayoff int               `json:"agent_a_cum_payoff"`
	AgentBCumPayoff int               `json:"agent_b_cum_payoff"`
	HorizonType     string            `json:"horizon_type"`
	TimestampUTC    string            `json:"timestamp_utc"`
	FixedN          *int              `json:"fixed_n,omitempty"`
	StopProb        *float64          `json:"stop_prob,omitempty"`
	Prompts         map[string]Prompt `json:"prompts,omitempty"`
	RawResponses    map[string]string `json:"raw_responses,omitempty"`

	// Line is the 1-indexed line number this event was read from, set by
	// ReadAll and never persisted; it lets a downstream consumer report a
	// malformed record's position in rounds.jsonl.
	Line int `json:"-"`
}

// Prompt is the system/round prompt pair stored for one agent on one round.
type Prompt struct {
	System string `json:"system"`
	Round  string `json:"round"`
}

// Logger appends round events to a single JSONL file. Safe for concurrent
// use: each LogRound call acquires a mutex around its single append to the
// file so lines never interleave, matching the single-writer/append-only
// discipline the concurrency model requires.
type Logger struct {
	path   string
	clock  quartz.Clock
	logger zerolog.Logger

	mu   sync.Mutex
	file *os.File
}

// New opens (creating if necessary) <outputDir>/rounds.jsonl for appending.
func New(outputDir string, clock quartz.Clock, logger zerolog.Logger) (*Logger, error) {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("roundlog: create output dir %s: %w", outputDir, err)
	}
	path := filepath.Join(outputDir, "rounds.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("roundlog: open %s: %w", path, err)
	}
	return &Logger{path: path, clock: clock, logger: logger, file: f}, nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	return l.file.Close()
}

// LogRoundParams bundles the fields needed to log one round. Optional fields
// are nil/empty when not applicable or not configured.
type LogRoundParams struct {
	RunID           string
	Condition       string
	Replicate       int
	RoundIndex      int
	AgentAAction    core.Action
	AgentBAction    core.Action
	AgentAPayoff    int
	AgentBPayoff    int
	AgentACumPayoff int
	AgentBCumPayoff int
	HorizonType     core.HorizonType
	FixedN          *int
	StopProb        *float64
	Prompts         map[string]Prompt
	RawResponses    map[string]string
}

// LogRound appends one round event. It is safe to call from multiple
// goroutines (one per in-flight replicate); writes are serialized.
func (l *Logger) LogRound(p LogRoundParams) error {
	event := RoundEvent{
		RunID:           p.RunID,
		Condition:       p.Condition,
		Replicate:       p.Replicate,
		RoundIndex:      p.RoundIndex,
		AgentAAction:    p.AgentAAction.String(),
		AgentBAction:    p.AgentBAction.String(),
		AgentAPayoff:    p.AgentAPayoff,
		AgentBPayoff:    p.AgentBPayoff,
		AgentACumPayoff: p.AgentACumPayoff,
		AgentBCumPayoff: p.AgentBCumPayoff,
		HorizonType:     string(p.HorizonType),
		TimestampUTC:    l.clock.Now().UTC().Format(time.RFC3339),
		FixedN:          p.FixedN,
		StopProb:        p.StopProb,
		Prompts:         p.Prompts,
		RawResponses:    p.RawResponses,
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("roundlog: marshal round event: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("roundlog: write round event: %w", err)
	}

	l.logger.Debug().
		Str("condition", p.Condition).
		Int("replicate", p.Replicate).
		Int("round_index", p.RoundIndex).
		Msg("round logged")

	return nil
}
