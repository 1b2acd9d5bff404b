package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`"42"`, "42"},
		{`42`, "42"},
		{`-1`, "-1"},
		{`3.5`, "3.5"},
	}
	for _, tc := range tests {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(tc.input), &f), tc.input)
		assert.Equal(t, tc.want, f.String(), tc.input)
	}

	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"not": "scalar"}`), &f))
}

func TestIntBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`1`, true},
		{`0`, false},
		{`true`, true},
		{`false`, false},
	}
	for _, tc := range tests {
		var b IntBool
		require.NoError(t, json.Unmarshal([]byte(tc.input), &b), tc.input)
		assert.Equal(t, tc.want, b.Bool(), tc.input)
	}

	out, err := json.Marshal(IntBool(true))
	require.NoError(t, err)
	assert.Equal(t, "1", string(out), "serialized in the platform's integer form")
}

func TestVoteState(t *testing.T) {
	valid := map[string]VoteState{
		`1`:  VoteStateUpvoted,
		`0`:  VoteStateUnvoted,
		`-1`: VoteStateDownvoted,
		`-2`: VoteStateUnvotable,
	}
	for input, want := range valid {
		var v VoteState
		require.NoError(t, json.Unmarshal([]byte(input), &v), input)
		assert.Equal(t, want, v)

		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, input, string(out))
	}

	for _, input := range []string{`2`, `-3`, `"up"`} {
		var v VoteState
		assert.Error(t, json.Unmarshal([]byte(input), &v), input)
	}
}

func TestVoteStateVotable(t *testing.T) {
	assert.True(t, VoteStateUpvoted.Votable())
	assert.True(t, VoteStateUnvoted.Votable())
	assert.True(t, VoteStateDownvoted.Votable())
	assert.False(t, VoteStateUnvotable.Votable())
}
