package agent

import (
	"context"
	"fmt"

	"github.com/agentgamelab/pdbench/internal/core"
)

// PolicyName identifies one of the six built-in fixed strategies.
type PolicyName string

const (
	PolicyALLC PolicyName = "ALLC"
	PolicyALLD PolicyName = "ALLD"
	PolicyTFT  PolicyName = "TFT"
	PolicyGRIM PolicyName = "GRIM"
	PolicyGTFT PolicyName = "GTFT"
	PolicyWSLS PolicyName = "WSLS"
)

// DefaultGenerousProb is GTFT's default forgiveness probability.
const DefaultGenerousProb = 0.1

// DefaultWSLSWinThreshold is WSLS's default win/lose payoff cutoff.
const DefaultWSLSWinThreshold = 3

// ALLC always cooperates.
type ALLC struct{}

func (ALLC) Reset(seed *int64) {}
func (ALLC) Act(ctx context.Context, obs core.Observation) (core.Action, error) {
	return core.Cooperate, nil
}

// ALLD always defects.
type ALLD struct{}

func (ALLD) Reset(seed *int64) {}
func (ALLD) Act(ctx context.Context, obs core.Observation) (core.Action, error) {
	return core.Defect, nil
}

// TFT cooperates on the first round, then copies the opponent's previous
// action.
type TFT struct{}

func (TFT) Reset(seed *int64) {}
func (TFT) Act(ctx context.Context, obs core.Observation) (core.Action, error) {
	if len(obs.History) == 0 {
		return core.Cooperate, nil
	}
	return obs.History[len(obs.History)-1].OpponentAction, nil
}

// GRIM cooperates until the opponent defects once, then defects forever.
type GRIM struct {
	triggered bool
}

func NewGRIM() *GRIM { return &GRIM{} }

func (g *GRIM) Reset(seed *int64) { g.triggered = false }

func (g *GRIM) Act(ctx context.Context, obs core.Observation) (core.Action, error) {
	if g.triggered {
		return core.Defect, nil
	}
	for _, h := range obs.History {
		if h.OpponentAction == core.Defect {
			g.triggered = true
			return core.Defect, nil
		}
	}
	return core.Cooperate, nil
}

// GTFT is Tit-for-Tat that forgives a defection with probability
// GenerousProb instead of retaliating.
type GTFT struct {
	GenerousProb float64
	rng          *core.RNG
}

// NewGTFT constructs a GTFT agent. generousProb < 0 selects DefaultGenerousProb.
func NewGTFT(generousProb float64, seed *int64) *GTFT {
	if generousProb < 0 {
		generousProb = DefaultGenerousProb
	}
	return &GTFT{GenerousProb: generousProb, rng: core.NewRNG(seed)}
}

func (g *GTFT) Reset(seed *int64) { g.rng.Reset(seed) }

func (g *GTFT) Act(ctx context.Context, obs core.Observation) (core.Action, error) {
	if len(obs.History) == 0 {
		return core.Cooperate, nil
	}
	last := obs.History[len(obs.History)-1].OpponentAction
	if last == core.Defect {
		if g.rng.Bernoulli(g.GenerousProb) {
			return core.Cooperate, nil
		}
		return core.Defect, nil
	}
	return core.Cooperate, nil
}

// WSLS repeats its own last action after a "win" (payoff >= WinThreshold) and
// switches after a "loss".
type WSLS struct {
	WinThreshold int
	rng          *core.RNG // kept for interface/config consistency; unused by the strategy itself
}

// NewWSLS constructs a WSLS agent. winThreshold <= 0 selects
// DefaultWSLSWinThreshold.
func NewWSLS(winThreshold int, seed *int64) *WSLS {
	if winThreshold <= 0 {
		winThreshold = DefaultWSLSWinThreshold
	}
	return &WSLS{WinThreshold: winThreshold, rng: core.NewRNG(seed)}
}

func (w *WSLS) Reset(seed *int64) { w.rng.Reset(seed) }

func (w *WSLS) Act(ctx context.Context, obs core.Observation) (core.Action, error) {
	if len(obs.History) == 0 {
		return core.Cooperate, nil
	}
	last := obs.History[len(obs.History)-1]
	if last.MyPayoff >= w.WinThreshold {
		return last.MyAction, nil
	}
	if last.MyAction == core.Cooperate {
		return core.Defect, nil
	}
	return core.Cooperate, nil
}

// NewPolicy constructs a named policy agent with the given parameters.
// generousProb and winThreshold are ignored by policies that don't use them.
func NewPolicy(name PolicyName, generousProb float64, winThreshold int, seed *int64) (Agent, error) {
	switch name {
	case PolicyALLC:
		return ALLC{}, nil
	case PolicyALLD:
		return ALLD{}, nil
	case PolicyTFT:
		return TFT{}, nil
	case PolicyGRIM:
		return NewGRIM(), nil
	case PolicyGTFT:
		return NewGTFT(generousProb, seed), nil
	case PolicyWSLS:
		return NewWSLS(winThreshold, seed), nil
	default:
		return nil, fmt.Errorf("agent: unknown policy %q", name)
	}
}
