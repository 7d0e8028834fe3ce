package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeJSON_Indented verifies pretty-printing and nested author
func TestEncodeJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleRecords()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[\n  {\n    \"titulo\": "))
	assert.Contains(t, out, `"autor": {`)
	assert.Contains(t, out, `"nombre": "Minko"`)
	assert.Contains(t, out, `<signals> & more`, "HTML characters are not escaped")
	assert.Contains(t, out, `"enlace": null`)
	assert.NotContains(t, out, "Origin")
}

// TestEncodeJSON_Nil verifies a nil slice is written as an empty array
func TestEncodeJSON_Nil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, nil))

	assert.Equal(t, "[]\n", buf.String())
}

// TestEncodeJSON_KeyOrder verifies fields are written in a fixed order
func TestEncodeJSON_KeyOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleRecords()[:1]))
	out := buf.String()

	last := -1
	for _, key := range []string{"titulo", "texto", "enlace", "avatar", "fecha", "claps", "comentarios", "autor", "nombre", "apellido"} {
		idx := strings.Index(out, `"`+key+`":`)
		require.GreaterOrEqual(t, idx, 0, key)
		assert.Greater(t, idx, last, key)
		last = idx
	}
}
