package jsontree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	tree, err := ParseString(`{"a": 1, "b": [true, null, "x"], "c": 1.5}`)
	require.NoError(t, err)

	obj, ok := tree.(map[string]any)
	require.True(t, ok)
	require.Equal(t, int64(1), obj["a"])
	require.Equal(t, 1.5, obj["c"])
	require.Equal(t, []any{true, nil, "x"}, obj["b"])
}

func TestParseInvalid(t *testing.T) {
	_, err := ParseString(`{"a":`)
	require.Error(t, err)

	_, err = Parse([]byte(`[1, 2`))
	require.Error(t, err)
}

func TestSerializeIsDeterministic(t *testing.T) {
	tree, err := ParseString(`{"z": 1, "a": {"y": 2, "b": 3}}`)
	require.NoError(t, err)

	first := Serialize(tree)
	require.JSONEq(t, `{"z": 1, "a": {"y": 2, "b": 3}}`, first)

	// Key order must be stable across calls on the same tree.
	for i := 0; i < 16; i++ {
		require.Equal(t, first, Serialize(tree))
	}
}
