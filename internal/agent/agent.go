// Package agent implements the strategies that play one side of a game:
// fixed policy agents, LLM-backed agents, and CrewAI-style persona agents, all
// behind the single Agent interface.
package agent

import (
	"context"

	"github.com/agentgamelab/pdbench/internal/core"
)

// Agent is implemented by anything that can choose an action given the
// current observation. Act must be pure with respect to its own internal
// state: given the same sequence of observations since the last Reset, it
// must produce the same sequence of actions whenever its RNG (if any) was
// seeded identically.
type Agent interface {
	// Reset prepares the agent for a new replicate. seed rebinds any
	// internal RNG; nil means nondeterministic.
	Reset(seed *int64)

	// Act chooses an action for the given observation.
	Act(ctx context.Context, obs core.Observation) (core.Action, error)
}

// Diagnostics is implemented by agents that expose extra per-round detail for
// the round log beyond the chosen action, namely LLM-backed agents.
type Diagnostics interface {
	// LastPrompts returns the system/round prompts sent on the most recent
	// Act call, or nil if Act has not been called since the last Reset.
	LastPrompts() map[string]string

	// LastRawResponse returns the provider's raw completion text from the
	// most recent Act call, or empty if none.
	LastRawResponse() string

	// ParseAttempts returns the parse-attempt trail from the most recent Act
	// call.
	ParseAttempts() []core.ParseAttempt
}
