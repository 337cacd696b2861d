package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsKeys(t *testing.T) {
	out, err := Marshal(map[string]any{"b": 1, "a": true, "c": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":true,"b":1,"c":"x"}`, string(out))
}

func TestMarshal_UTF16KeyOrder(t *testing.T) {
	// U+1F600 sorts after U+E000 in UTF-8 but before it in UTF-16
	// (surrogate 0xD83D < 0xE000).
	out, err := Marshal(map[string]any{"\U0001F600": 1, "\uE000": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"\uE000\":2}", string(out))
}

func TestMarshal_NoHTMLEscape(t *testing.T) {
	out, err := Marshal("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(out))
}

func TestMarshal_NFC(t *testing.T) {
	composed, err := Marshal("\u00e9")
	require.NoError(t, err)
	decomposed, err := Marshal("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshal_LineSeparatorsLiteral(t *testing.T) {
	out, err := Marshal("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(out))

	out, err = Marshal(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(out), "escaped backslash stays escaped")
}

func TestMarshal_Arrays(t *testing.T) {
	out, err := Marshal([]int{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, `[3,1,2]`, string(out))

	out, err = Marshal([]any{"a", int64(7), []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, `["a",7,["x"]]`, string(out))
}

func TestMarshal_Forbidden(t *testing.T) {
	_, err := Marshal(nil)
	assert.ErrorContains(t, err, "null")

	_, err = Marshal(1.5)
	assert.ErrorContains(t, err, "floats")

	_, err = Marshal(map[string]any{"k": 2.5})
	assert.ErrorContains(t, err, `key "k"`)

	_, err = Marshal(struct{}{})
	assert.ErrorContains(t, err, "unsupported type")
}
