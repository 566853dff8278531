package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendRound(t *Transcript, matrix *PayoffMatrix, idx int, a, b Action, cumA, cumB *int) {
	pa, pb := matrix.Payoffs(a, b)
	*cumA += pa
	*cumB += pb
	t.Append(RoundRecord{
		RoundIndex: idx,
		ActionA:    a,
		ActionB:    b,
		PayoffA:    pa,
		PayoffB:    pb,
		CumPayoffA: *cumA,
		CumPayoffB: *cumB,
	})
}

func TestTranscriptObservationEmptyHistory(t *testing.T) {
	matrix := DefaultPayoffMatrix()
	tr := NewTranscript(0, matrix, HorizonFixed, intPtr(5))

	obs := tr.ObservationFor(1, SideA)
	assert.Empty(t, obs.History)
	assert.Equal(t, 0, obs.MyCumulativePayoff)
	assert.Equal(t, 0, obs.OpponentCumulativePayoff)
	require.NotNil(t, obs.TotalRounds)
	assert.Equal(t, 5, *obs.TotalRounds)
}

func TestTranscriptObservationPerspectiveSwap(t *testing.T) {
	matrix := DefaultPayoffMatrix()
	tr := NewTranscript(0, matrix, HorizonFixed, intPtr(10))
	var cumA, cumB int
	appendRound(tr, matrix, 0, Cooperate, Defect, &cumA, &cumB)

	obsA := tr.ObservationFor(2, SideA)
	require.Len(t, obsA.History, 1)
	assert.Equal(t, Cooperate, obsA.History[0].MyAction)
	assert.Equal(t, Defect, obsA.History[0].OpponentAction)
	assert.Equal(t, 0, obsA.MyCumulativePayoff)
	assert.Equal(t, 5, obsA.OpponentCumulativePayoff)

	obsB := tr.ObservationFor(2, SideB)
	require.Len(t, obsB.History, 1)
	assert.Equal(t, Defect, obsB.History[0].MyAction)
	assert.Equal(t, Cooperate, obsB.History[0].OpponentAction)
	assert.Equal(t, 5, obsB.MyCumulativePayoff)
	assert.Equal(t, 0, obsB.OpponentCumulativePayoff)
}

func TestTranscriptObservationWindowing(t *testing.T) {
	matrix := DefaultPayoffMatrix()
	tr := NewTranscript(3, matrix, HorizonGeometric, nil)
	var cumA, cumB int
	for i := 0; i < 10; i++ {
		appendRound(tr, matrix, i, Cooperate, Cooperate, &cumA, &cumB)
	}

	obs := tr.ObservationFor(11, SideA)
	assert.Len(t, obs.History, 3, "history must be capped at the configured window")
	assert.Nil(t, obs.TotalRounds, "geometric horizon carries no fixed total")
}

func TestTranscriptResetClearsRounds(t *testing.T) {
	matrix := DefaultPayoffMatrix()
	tr := NewTranscript(0, matrix, HorizonFixed, intPtr(5))
	var cumA, cumB int
	appendRound(tr, matrix, 0, Cooperate, Cooperate, &cumA, &cumB)

	tr.Reset()
	obs := tr.ObservationFor(1, SideA)
	assert.Empty(t, obs.History)
}

func TestFormatHistoryTextEmpty(t *testing.T) {
	matrix := DefaultPayoffMatrix()
	tr := NewTranscript(0, matrix, HorizonFixed, intPtr(5))
	obs := tr.ObservationFor(1, SideA)
	assert.Contains(t, FormatHistoryText(obs), "No history yet")
}

func TestFormatHistoryTextNonEmpty(t *testing.T) {
	matrix := DefaultPayoffMatrix()
	tr := NewTranscript(0, matrix, HorizonFixed, intPtr(5))
	var cumA, cumB int
	appendRound(tr, matrix, 0, Cooperate, Defect, &cumA, &cumB)

	obs := tr.ObservationFor(2, SideA)
	text := FormatHistoryText(obs)
	assert.Contains(t, text, "You played C")
	assert.Contains(t, text, "Opponent played D")
}

func TestFormatHorizonText(t *testing.T) {
	matrix := DefaultPayoffMatrix()
	trFixed := NewTranscript(0, matrix, HorizonFixed, intPtr(20))
	obsFixed := trFixed.ObservationFor(1, SideA)
	assert.Contains(t, FormatHorizonText(obsFixed), "20")

	trGeo := NewTranscript(0, matrix, HorizonGeometric, nil)
	obsGeo := trGeo.ObservationFor(1, SideA)
	assert.Contains(t, FormatHorizonText(obsGeo), "continues")
}

func intPtr(n int) *int { return &n }
