package core

import "fmt"

// Side identifies which player an observation/perspective is built for.
type Side int

const (
	SideA Side = iota
	SideB
)

// RoundRecord is the immutable per-round tuple the transcript accumulates.
// It carries just the fields needed to rebuild observations and compute
// metrics; the full logged event (with context keys and prompts) lives in
// internal/roundlog.
type RoundRecord struct {
	RoundIndex   int
	ActionA      Action
	ActionB      Action
	PayoffA      int
	PayoffB      int
	CumPayoffA   int
	CumPayoffB   int
}

// HistoryEntry is one past round re-projected from a side's perspective:
// (my action, opponent action, my payoff, opponent payoff).
type HistoryEntry struct {
	MyAction       Action
	OpponentAction Action
	MyPayoff       int
	OpponentPayoff int
}

// Observation is the strictly partial view handed to an agent for one round.
// It is a pure value: agents must not retain references to it beyond a
// single Act call, and the transcript never hands out the same Observation
// twice.
type Observation struct {
	RoundNumber              int // 1-based
	History                  []HistoryEntry
	MyCumulativePayoff       int
	OpponentCumulativePayoff int
	PayoffMatrix             *PayoffMatrix
	HorizonType              HorizonType
	TotalRounds              *int // only set when HorizonType == HorizonFixed
}

// DefaultHistoryWindow is the default bound on how many prior rounds an
// observation's History covers.
const DefaultHistoryWindow = 10

// Transcript is the per-game, append-only round buffer. It is the sole
// authority for building observations within a replicate; it is created
// empty at the start of a replicate and discarded at the end.
type Transcript struct {
	historyWindow int
	payoffMatrix  *PayoffMatrix
	horizonType   HorizonType
	totalRounds   *int
	rounds        []RoundRecord
}

// NewTranscript constructs an empty transcript. historyWindow <= 0 selects
// DefaultHistoryWindow.
func NewTranscript(historyWindow int, payoffMatrix *PayoffMatrix, horizonType HorizonType, totalRounds *int) *Transcript {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Transcript{
		historyWindow: historyWindow,
		payoffMatrix:  payoffMatrix,
		horizonType:   horizonType,
		totalRounds:   totalRounds,
		rounds:        nil,
	}
}

// Append records one completed round.
func (t *Transcript) Append(r RoundRecord) {
	t.rounds = append(t.rounds, r)
}

// Reset clears the transcript for a new replicate.
func (t *Transcript) Reset() {
	t.rounds = t.rounds[:0]
}

// ObservationFor builds a fresh observation for roundNumber (1-based) from
// side's perspective, covering at most the most recent historyWindow
// completed rounds.
func (t *Transcript) ObservationFor(roundNumber int, side Side) Observation {
	start := 0
	if len(t.rounds) > t.historyWindow {
		start = len(t.rounds) - t.historyWindow
	}
	windowed := t.rounds[start:]

	history := make([]HistoryEntry, 0, len(windowed))
	for _, r := range windowed {
		if side == SideA {
			history = append(history, HistoryEntry{r.ActionA, r.ActionB, r.PayoffA, r.PayoffB})
		} else {
			history = append(history, HistoryEntry{r.ActionB, r.ActionA, r.PayoffB, r.PayoffA})
		}
	}

	var myCum, oppCum int
	if len(t.rounds) > 0 {
		last := t.rounds[len(t.rounds)-1]
		if side == SideA {
			myCum, oppCum = last.CumPayoffA, last.CumPayoffB
		} else {
			myCum, oppCum = last.CumPayoffB, last.CumPayoffA
		}
	}

	var totalRounds *int
	if t.horizonType == HorizonFixed && t.totalRounds != nil {
		n := *t.totalRounds
		totalRounds = &n
	}

	return Observation{
		RoundNumber:              roundNumber,
		History:                  history,
		MyCumulativePayoff:       myCum,
		OpponentCumulativePayoff: oppCum,
		PayoffMatrix:             t.payoffMatrix,
		HorizonType:              t.horizonType,
		TotalRounds:              totalRounds,
	}
}

// FormatHistoryText renders the observation's history as readable prompt
// text, used by LLM agents.
func FormatHistoryText(obs Observation) string {
	if len(obs.History) == 0 {
		return "No history yet (this is the first round)."
	}
	startRound := obs.RoundNumber - len(obs.History)
	lines := make([]string, len(obs.History))
	for i, h := range obs.History {
		lines[i] = fmt.Sprintf("Round %d: You played %s, Opponent played %s -> You got %d, Opponent got %d",
			startRound+i, h.MyAction, h.OpponentAction, h.MyPayoff, h.OpponentPayoff)
	}
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

// FormatCumulativeTotals renders the observation's cumulative payoffs as
// prompt text.
func FormatCumulativeTotals(obs Observation) string {
	return fmt.Sprintf("Your cumulative payoff: %d\nOpponent's cumulative payoff: %d",
		obs.MyCumulativePayoff, obs.OpponentCumulativePayoff)
}

// FormatHorizonText renders the observation's horizon as prompt text.
func FormatHorizonText(obs Observation) string {
	if obs.HorizonType == HorizonFixed && obs.TotalRounds != nil {
		return fmt.Sprintf(" of %d", *obs.TotalRounds)
	}
	return " (game continues until stopped)"
}
