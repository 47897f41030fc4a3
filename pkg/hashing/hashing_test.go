package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultihashMatchesSHA256(t *testing.T) {
	d, err := Default.Sum([]byte("aaa"))
	require.NoError(t, err)

	expected := sha256.Sum256([]byte("aaa"))
	assert.Equal(t, expected[:], d)
}

func TestHexDigestStable(t *testing.T) {
	v := struct {
		A string
		B uint64
	}{"x", 7}

	d1, err := HexDigest(Default, v)
	require.NoError(t, err)

	d2, err := HexDigest(Default, v)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)

	_, err = hex.DecodeString(d1)
	assert.NoError(t, err)
}

func TestHexDigestOrderSensitive(t *testing.T) {
	d1, err := HexDigest(Default, []string{"a", "b"})
	require.NoError(t, err)

	d2, err := HexDigest(Default, []string{"b", "a"})
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
}
