package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(map[string]int{"a": 1})
	require.NoError(t, err)

	var m map[string]int
	require.NoError(t, Decode(data, &m))
	assert.Equal(t, 1, m["a"])

	raw, err := Encode([]byte("raw"))
	require.NoError(t, err)
	var b []byte
	require.NoError(t, Decode(raw, &b))
	assert.Equal(t, "raw", string(b))

	_, err = Encode(nil)
	assert.ErrorIs(t, err, ErrInvalidValue)

	var n int
	assert.ErrorIs(t, Decode([]byte("not json"), &n), ErrInvalidValue)
}
