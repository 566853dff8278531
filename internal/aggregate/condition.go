package aggregate

import (
	"sort"

	"github.com/agentgamelab/pdbench/internal/core"
	"gonum.org/v1/gonum/stat"
)

// ConditionAverage is the mean of each numeric metric across a condition's
// replicates. Replicate itself is excluded, matching the reference
// aggregation's behavior.
type ConditionAverage struct {
	Condition             string
	Replicates            int
	AgentACooperationRate float64
	AgentBCooperationRate float64
	AgentATotalPayoff     float64
	AgentBTotalPayoff     float64
	ExploitabilityGapA    float64
	ExploitabilityGapB    float64
}

// ConditionAverages groups metrics by Condition and averages every numeric
// column across replicates using gonum/stat.Mean, returning conditions in
// alphabetical order.
func ConditionAverages(metrics []core.ConditionMetrics) []ConditionAverage {
	order := make([]string, 0)
	grouped := map[string][]core.ConditionMetrics{}
	for _, m := range metrics {
		if _, ok := grouped[m.Condition]; !ok {
			order = append(order, m.Condition)
		}
		grouped[m.Condition] = append(grouped[m.Condition], m)
	}
	sort.Strings(order)

	out := make([]ConditionAverage, 0, len(order))
	for _, condition := range order {
		group := grouped[condition]
		out = append(out, ConditionAverage{
			Condition:             condition,
			Replicates:            len(group),
			AgentACooperationRate: stat.Mean(extract(group, func(m core.ConditionMetrics) float64 { return m.AgentACooperationRate }), nil),
			AgentBCooperationRate: stat.Mean(extract(group, func(m core.ConditionMetrics) float64 { return m.AgentBCooperationRate }), nil),
			AgentATotalPayoff:     stat.Mean(extract(group, func(m core.ConditionMetrics) float64 { return float64(m.AgentATotalPayoff) }), nil),
			AgentBTotalPayoff:     stat.Mean(extract(group, func(m core.ConditionMetrics) float64 { return float64(m.AgentBTotalPayoff) }), nil),
			ExploitabilityGapA:    stat.Mean(extract(group, func(m core.ConditionMetrics) float64 { return float64(m.ExploitabilityGapA) }), nil),
			ExploitabilityGapB:    stat.Mean(extract(group, func(m core.ConditionMetrics) float64 { return float64(m.ExploitabilityGapB) }), nil),
		})
	}
	return out
}

func extract(group []core.ConditionMetrics, f func(core.ConditionMetrics) float64) []float64 {
	values := make([]float64, len(group))
	for i, m := range group {
		values[i] = f(m)
	}
	return values
}
