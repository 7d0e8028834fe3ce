package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEngagement_Counts verifies clap and response counts are read
func TestEngagement_Counts(t *testing.T) {
	state := []byte(`{
		"ROOT_QUERY": {"viewer": null},
		"User:abc": {"name": "Jane"},
		"Post:123": {"clapCount": 42, "postResponses": {"__typename": "PostResponses", "count": 7}}
	}`)

	claps, comments := Engagement(state, "Post:")

	assert.Equal(t, "42", claps)
	assert.Equal(t, "7", comments)
}

// TestEngagement_FirstMatchingKey verifies key order is respected
func TestEngagement_FirstMatchingKey(t *testing.T) {
	state := []byte(`{"Post:b": {"clapCount": 1}, "Post:a": {"clapCount": 2}}`)

	claps, comments := Engagement(state, "Post:")

	assert.Equal(t, "1", claps)
	assert.Equal(t, "0", comments)
}

// TestEngagement_NoMatchingKey verifies the zero defaults
func TestEngagement_NoMatchingKey(t *testing.T) {
	claps, comments := Engagement([]byte(`{"User:1": {"clapCount": 9}}`), "Post:")

	assert.Equal(t, "0", claps)
	assert.Equal(t, "0", comments)
}

// TestEngagement_NoState verifies nil and null state
func TestEngagement_NoState(t *testing.T) {
	for _, state := range [][]byte{nil, []byte(""), []byte("null"), []byte("  ")} {
		claps, comments := Engagement(state, "Post:")
		assert.Equal(t, "0", claps)
		assert.Equal(t, "0", comments)
	}
}

// TestEngagement_Malformed verifies broken state never panics or errors
func TestEngagement_Malformed(t *testing.T) {
	for _, state := range []string{
		`{"Post:1": `,
		`[1, 2, 3]`,
		`"just a string"`,
		`{"Post:1": null}`,
		`{"Post:1": 5}`,
		`{"Post:1": {"clapCount": {"nested": true}, "postResponses": 3}}`,
	} {
		claps, comments := Engagement([]byte(state), "Post:")
		assert.Equal(t, "0", claps, state)
		assert.Equal(t, "0", comments, state)
	}
}

// TestEngagement_ScalarForms verifies how counter values are rendered
func TestEngagement_ScalarForms(t *testing.T) {
	claps, comments := Engagement([]byte(`{"Post:1": {"clapCount": "1.2K", "postResponses": {"count": 0}}}`), "Post:")
	assert.Equal(t, "1.2K", claps)
	assert.Equal(t, "0", comments)

	claps, _ = Engagement([]byte(`{"Post:1": {"clapCount": 1.5}}`), "Post:")
	assert.Equal(t, "1.5", claps)

	claps, _ = Engagement([]byte(`{"Post:1": {"clapCount": ""}}`), "Post:")
	assert.Equal(t, "0", claps)
}

// TestFindStateEntry_Errors verifies the sentinel errors
func TestFindStateEntry_Errors(t *testing.T) {
	_, err := FindStateEntry(nil, "Post:")
	assert.ErrorIs(t, err, ErrNoState)

	_, err = FindStateEntry([]byte(`[]`), "Post:")
	assert.ErrorIs(t, err, ErrNoState)

	_, err = FindStateEntry([]byte(`{"User:1": {}}`), "Post:")
	assert.ErrorIs(t, err, ErrNoStateEntry)

	entry, err := FindStateEntry([]byte(`{"Post:9": {"id": "9"}}`), "Post:")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "9"}`, string(entry))
}
