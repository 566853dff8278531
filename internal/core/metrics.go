package core

// ConditionMetrics is one row of derived per-replicate summary statistics,
// computed purely from a replicate's ordered RoundRecords and the two
// collapse parameters (K, threshold). See spec §4.8.
type ConditionMetrics struct {
	Condition   string
	Replicate   int
	TotalRounds int

	AgentACooperationRate float64
	AgentBCooperationRate float64

	// CooperationRateOverTime[r] is the cumulative joint cooperation rate
	// through round r (0-based), length == TotalRounds.
	CooperationRateOverTime []float64

	AgentARetaliationRate *float64
	AgentBRetaliationRate *float64
	AgentAForgivenessRate *float64
	AgentBForgivenessRate *float64

	AgentATotalPayoff int
	AgentBTotalPayoff int

	// ExploitabilityGapA is B's final total minus A's; ExploitabilityGapB is
	// the mirror. Positive means that side was exploited.
	ExploitabilityGapA int
	ExploitabilityGapB int

	// TimeToCollapse is nil if the game never collapses (or N < K).
	TimeToCollapse *int
}

// DefaultCollapseWindow and DefaultCollapseThreshold are the spec's defaults
// for the time-to-collapse metric.
const (
	DefaultCollapseWindow    = 10
	DefaultCollapseThreshold = 0.2
)

// CooperationRate returns the fraction of actions in a sequence equal to
// Cooperate, or 0 for an empty sequence.
func CooperationRate(actions []Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	coops := 0
	for _, a := range actions {
		if a == Cooperate {
			coops++
		}
	}
	return float64(coops) / float64(len(actions))
}

// CooperationRateOverTime returns, for each round r (0-based), the joint
// cumulative cooperation rate across both agents through round r.
func CooperationRateOverTime(a, b []Action) []float64 {
	n := len(a)
	rates := make([]float64, n)
	var aCoops, bCoops int
	for i := 0; i < n; i++ {
		if a[i] == Cooperate {
			aCoops++
		}
		if b[i] == Cooperate {
			bCoops++
		}
		rates[i] = float64(aCoops+bCoops) / float64(2*(i+1))
	}
	return rates
}

// RetaliationRate is the fraction of rounds r>=1, among those where the
// opponent defected at r-1, in which my action at r was Defect. nil when
// undefined: history shorter than 2 rounds, or the opponent never defected.
func RetaliationRate(my, opponent []Action) *float64 {
	return conditionalRate(my, opponent, Defect)
}

// ForgivenessRate is the same conditional population as RetaliationRate but
// counts my own Cooperate responses instead of Defect.
func ForgivenessRate(my, opponent []Action) *float64 {
	return conditionalRate(my, opponent, Cooperate)
}

func conditionalRate(my, opponent []Action, want Action) *float64 {
	if len(my) < 2 {
		return nil
	}
	var opponentDefects, matches int
	for t := 1; t < len(my); t++ {
		if opponent[t-1] == Defect {
			opponentDefects++
			if my[t] == want {
				matches++
			}
		}
	}
	if opponentDefects == 0 {
		return nil
	}
	rate := float64(matches) / float64(opponentDefects)
	return &rate
}

// TimeToCollapse returns the smallest round index r in [0, N-K] such that
// the joint cooperation rate over rounds [r, r+K) is <= threshold, or nil if
// N < K or no such r exists.
func TimeToCollapse(a, b []Action, k int, threshold float64) *int {
	n := len(a)
	if n < k {
		return nil
	}
	for t := 0; t <= n-k; t++ {
		var coops int
		for i := t; i < t+k; i++ {
			if a[i] == Cooperate {
				coops++
			}
			if b[i] == Cooperate {
				coops++
			}
		}
		rate := float64(coops) / float64(2*k)
		if rate <= threshold {
			r := t
			return &r
		}
	}
	return nil
}

// ComputeConditionMetrics computes the full ConditionMetrics row for one
// replicate's ordered round records.
func ComputeConditionMetrics(condition string, replicate int, rounds []RoundRecord, collapseK int, collapseThreshold float64) ConditionMetrics {
	if collapseK <= 0 {
		collapseK = DefaultCollapseWindow
	}

	actionsA := make([]Action, len(rounds))
	actionsB := make([]Action, len(rounds))
	for i, r := range rounds {
		actionsA[i] = r.ActionA
		actionsB[i] = r.ActionB
	}

	var totalA, totalB int
	if len(rounds) > 0 {
		last := rounds[len(rounds)-1]
		totalA, totalB = last.CumPayoffA, last.CumPayoffB
	}

	return ConditionMetrics{
		Condition:               condition,
		Replicate:               replicate,
		TotalRounds:             len(rounds),
		AgentACooperationRate:   CooperationRate(actionsA),
		AgentBCooperationRate:   CooperationRate(actionsB),
		CooperationRateOverTime: CooperationRateOverTime(actionsA, actionsB),
		AgentARetaliationRate:   RetaliationRate(actionsA, actionsB),
		AgentBRetaliationRate:   RetaliationRate(actionsB, actionsA),
		AgentAForgivenessRate:   ForgivenessRate(actionsA, actionsB),
		AgentBForgivenessRate:   ForgivenessRate(actionsB, actionsA),
		AgentATotalPayoff:       totalA,
		AgentBTotalPayoff:       totalB,
		ExploitabilityGapA:      totalB - totalA,
		ExploitabilityGapB:      totalA - totalB,
		TimeToCollapse:          TimeToCollapse(actionsA, actionsB, collapseK, collapseThreshold),
	}
}
