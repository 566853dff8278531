package agent

import (
	"context"
	"testing"

	"github.com/agentgamelab/pdbench/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsWithHistory(entries ...core.HistoryEntry) core.Observation {
	return core.Observation{RoundNumber: len(entries) + 1, History: entries}
}

func TestALLCAlwaysCooperates(t *testing.T) {
	a := ALLC{}
	act, err := a.Act(context.Background(), core.Observation{})
	require.NoError(t, err)
	assert.Equal(t, core.Cooperate, act)
}

func TestALLDAlwaysDefects(t *testing.T) {
	a := ALLD{}
	act, err := a.Act(context.Background(), core.Observation{})
	require.NoError(t, err)
	assert.Equal(t, core.Defect, act)
}

func TestTFTCooperatesFirstThenCopies(t *testing.T) {
	tft := TFT{}
	act, _ := tft.Act(context.Background(), core.Observation{})
	assert.Equal(t, core.Cooperate, act)

	obs := obsWithHistory(core.HistoryEntry{MyAction: core.Cooperate, OpponentAction: core.Defect})
	act, _ = tft.Act(context.Background(), obs)
	assert.Equal(t, core.Defect, act)
}

func TestGRIMTriggersPermanently(t *testing.T) {
	g := NewGRIM()
	obs := obsWithHistory(
		core.HistoryEntry{MyAction: core.Cooperate, OpponentAction: core.Cooperate},
		core.HistoryEntry{MyAction: core.Cooperate, OpponentAction: core.Defect},
	)
	act, _ := g.Act(context.Background(), obs)
	assert.Equal(t, core.Defect, act)

	// Even if a later observation shows the opponent cooperating again, GRIM
	// stays defected.
	obs2 := obsWithHistory(core.HistoryEntry{MyAction: core.Defect, OpponentAction: core.Cooperate})
	act, _ = g.Act(context.Background(), obs2)
	assert.Equal(t, core.Defect, act)
}

func TestGRIMResetClearsLatch(t *testing.T) {
	g := NewGRIM()
	obs := obsWithHistory(core.HistoryEntry{MyAction: core.Cooperate, OpponentAction: core.Defect})
	_, _ = g.Act(context.Background(), obs)

	g.Reset(nil)
	act, _ := g.Act(context.Background(), core.Observation{})
	assert.Equal(t, core.Cooperate, act)
}

func TestGTFTForgivesOrRetaliatesDeterministically(t *testing.T) {
	seed := int64(1)
	g := NewGTFT(1.0, &seed) // always forgive
	obs := obsWithHistory(core.HistoryEntry{MyAction: core.Cooperate, OpponentAction: core.Defect})
	act, _ := g.Act(context.Background(), obs)
	assert.Equal(t, core.Cooperate, act)

	g2 := NewGTFT(0.0, &seed) // never forgive
	act, _ = g2.Act(context.Background(), obs)
	assert.Equal(t, core.Defect, act)
}

func TestGTFTCooperatesOnFirstRound(t *testing.T) {
	g := NewGTFT(-1, nil)
	act, _ := g.Act(context.Background(), core.Observation{})
	assert.Equal(t, core.Cooperate, act)
	assert.Equal(t, DefaultGenerousProb, g.GenerousProb)
}

func TestWSLSStaysOnWinSwitchesOnLoss(t *testing.T) {
	w := NewWSLS(3, nil)

	win := obsWithHistory(core.HistoryEntry{MyAction: core.Defect, OpponentAction: core.Cooperate, MyPayoff: 5})
	act, _ := w.Act(context.Background(), win)
	assert.Equal(t, core.Defect, act, "win must repeat the same action")

	lose := obsWithHistory(core.HistoryEntry{MyAction: core.Cooperate, OpponentAction: core.Defect, MyPayoff: 0})
	act, _ = w.Act(context.Background(), lose)
	assert.Equal(t, core.Defect, act, "loss after cooperating must switch to defect")

	loseAfterDefect := obsWithHistory(core.HistoryEntry{MyAction: core.Defect, OpponentAction: core.Defect, MyPayoff: 1})
	act, _ = w.Act(context.Background(), loseAfterDefect)
	assert.Equal(t, core.Cooperate, act, "loss after defecting must switch to cooperate")
}

func TestWSLSCooperatesOnFirstRound(t *testing.T) {
	w := NewWSLS(0, nil)
	assert.Equal(t, DefaultWSLSWinThreshold, w.WinThreshold)
	act, _ := w.Act(context.Background(), core.Observation{})
	assert.Equal(t, core.Cooperate, act)
}

func TestNewPolicyDispatchesByName(t *testing.T) {
	names := []PolicyName{PolicyALLC, PolicyALLD, PolicyTFT, PolicyGRIM, PolicyGTFT, PolicyWSLS}
	for _, name := range names {
		a, err := NewPolicy(name, -1, 0, nil)
		require.NoError(t, err, "policy %s", name)
		require.NotNil(t, a)
	}
}

func TestNewPolicyRejectsUnknownName(t *testing.T) {
	_, err := NewPolicy("NOPE", -1, 0, nil)
	assert.Error(t, err)
}
