package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
)

func testPayload() []byte {
	// Repetitive JSON-ish payload, representative of batch bodies.
	return bytes.Repeat([]byte(`{"key":"data/0/val","ts":1714558200000,"v":24.7}`), 64)
}

func TestCodecRoundTrip(t *testing.T) {
	payload := testPayload()

	for _, ct := range []Type{None, Zstd, S2, LZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := ForType(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestCodecCompressesRepetitiveData(t *testing.T) {
	payload := testPayload()

	for _, ct := range []Type{Zstd, S2, LZ4} {
		codec, err := ForType(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(payload), "%s should shrink repetitive data", ct)
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for _, ct := range []Type{None, Zstd, S2, LZ4} {
		codec, err := ForType(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		restored, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, restored)
	}
}

func TestForTypeUnknown(t *testing.T) {
	_, err := ForType(Type(0xFF))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "None", None.String())
	require.Equal(t, "Zstd", Zstd.String())
	require.Equal(t, "S2", S2.String())
	require.Equal(t, "LZ4", LZ4.String())
	require.Equal(t, "Unknown", Type(0).String())
}
