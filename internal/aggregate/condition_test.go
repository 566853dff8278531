package aggregate

import (
	"testing"

	"github.com/agentgamelab/pdbench/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionAveragesGroupsAndAverages(t *testing.T) {
	metrics := []core.ConditionMetrics{
		{Condition: "tft_v_alld", Replicate: 0, AgentACooperationRate: 0.2, AgentATotalPayoff: 10},
		{Condition: "tft_v_alld", Replicate: 1, AgentACooperationRate: 0.4, AgentATotalPayoff: 20},
		{Condition: "allc_v_allc", Replicate: 0, AgentACooperationRate: 1.0, AgentATotalPayoff: 30},
	}

	averages := ConditionAverages(metrics)
	require.Len(t, averages, 2)

	byCondition := map[string]ConditionAverage{}
	for _, a := range averages {
		byCondition[a.Condition] = a
	}

	tft := byCondition["tft_v_alld"]
	assert.Equal(t, 2, tft.Replicates)
	assert.InDelta(t, 0.3, tft.AgentACooperationRate, 1e-9)
	assert.InDelta(t, 15.0, tft.AgentATotalPayoff, 1e-9)

	allc := byCondition["allc_v_allc"]
	assert.Equal(t, 1, allc.Replicates)
	assert.InDelta(t, 1.0, allc.AgentACooperationRate, 1e-9)
}

func TestConditionAveragesEmptyInput(t *testing.T) {
	assert.Empty(t, ConditionAverages(nil))
}

func TestConditionAveragesOrderedAlphabetically(t *testing.T) {
	metrics := []core.ConditionMetrics{
		{Condition: "z_condition", Replicate: 0},
		{Condition: "a_condition", Replicate: 0},
	}
	averages := ConditionAverages(metrics)
	require.Len(t, averages, 2)
	assert.Equal(t, "a_condition", averages[0].Condition)
	assert.Equal(t, "z_condition", averages[1].Condition)
}
