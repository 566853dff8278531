package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionStringAndJSONRoundTrip(t *testing.T) {
	for _, a := range []Action{Cooperate, Defect} {
		assert.Equal(t, string(rune(a)), a.String())

		data, err := json.Marshal(a)
		require.NoError(t, err)

		var out Action
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, a, out)
	}
}

func TestActionUnmarshalJSONRejectsGarbage(t *testing.T) {
	var a Action
	assert.Error(t, a.UnmarshalJSON([]byte(`"X"`)))
	assert.Error(t, a.UnmarshalJSON([]byte(`cooperate`)))
	assert.Error(t, a.UnmarshalJSON([]byte(`""`)))
}

func TestParseActionStrict(t *testing.T) {
	c, err := ParseActionStrict("C")
	require.NoError(t, err)
	assert.Equal(t, Cooperate, c)

	d, err := ParseActionStrict("D")
	require.NoError(t, err)
	assert.Equal(t, Defect, d)

	_, err = ParseActionStrict("c")
	assert.Error(t, err, "ParseActionStrict is case-sensitive; callers normalize first")
}
