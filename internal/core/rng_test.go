package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGReproducibleFromSameSeed(t *testing.T) {
	seed := int64(123)
	a := NewRNG(&seed)
	b := NewRNG(&seed)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRNGDifferentSeedsDiverge(t *testing.T) {
	s1, s2 := int64(1), int64(2)
	a := NewRNG(&s1)
	b := NewRNG(&s2)

	diverged := false
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
}

func TestRNGSeedReturnsCopy(t *testing.T) {
	seed := int64(7)
	r := NewRNG(&seed)

	got := r.Seed()
	require.NotNil(t, got)
	assert.Equal(t, seed, *got)

	*got = 999
	assert.Equal(t, int64(7), *r.Seed(), "mutating the returned pointer must not affect internal state")
}

func TestRNGNilSeedIsNondeterministicButUsable(t *testing.T) {
	r := NewRNG(nil)
	assert.Nil(t, r.Seed())
	v := r.Float64()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestRNGForkIsDeterministicFunctionOfParentSeedAndSuffix(t *testing.T) {
	seed := int64(42)
	parentA := NewRNG(&seed)
	parentB := NewRNG(&seed)

	childA := parentA.Fork(1000)
	childB := parentB.Fork(1000)

	require.NotNil(t, childA.Seed())
	require.NotNil(t, childB.Seed())
	assert.Equal(t, *childA.Seed(), *childB.Seed())
	assert.Equal(t, seed+1000+1, *childA.Seed())
}

func TestRNGForkDifferentSuffixesDiverge(t *testing.T) {
	seed := int64(42)
	parent := NewRNG(&seed)
	childA := parent.Fork(0)
	childB := parent.Fork(1000)

	assert.NotEqual(t, *childA.Seed(), *childB.Seed())
}

func TestRNGForkOfNondeterministicParentIsNondeterministic(t *testing.T) {
	parent := NewRNG(nil)
	child := parent.Fork(5)
	assert.Nil(t, child.Seed())
}

func TestChoicePicksFromSlice(t *testing.T) {
	seed := int64(1)
	r := NewRNG(&seed)
	options := []string{"a", "b", "c"}
	for i := 0; i < 10; i++ {
		got := Choice(r, options)
		assert.Contains(t, options, got)
	}
}

func TestBernoulliExtremesAreDeterministic(t *testing.T) {
	seed := int64(1)
	r := NewRNG(&seed)
	assert.True(t, r.Bernoulli(1.0))
	assert.False(t, r.Bernoulli(0.0))
}
