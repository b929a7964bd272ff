package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/compress"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/extract"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/internal/hash"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/jsontree"
)

// ==============================================================================
// Helper Functions
// ==============================================================================

func testSamples(t *testing.T) []extract.Sample {
	t.Helper()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	return []extract.Sample{
		{Key: "data/temperature", Timestamp: base, Value: extract.NumberValue(24.7), TimestampSource: extract.SourceDocument},
		{Key: "data/temperature", Timestamp: base.Add(time.Minute), Value: extract.NumberValue(24.8), TimestampSource: extract.SourceDocument},
		{Key: "data/status", Timestamp: base, Value: extract.StringValue("OK"), TimestampSource: extract.SourceDocument},
		{Key: "data/enabled", Timestamp: base, Value: extract.BoolValue(true), TimestampSource: extract.SourceFallbackProvider},
		{Key: "data/error", Timestamp: base, Value: extract.NullValue(), TimestampSource: extract.SourceCurrentTime},
		{Key: "data/raw", Timestamp: base, Value: extract.RawJSONValue(`{"x":1}`), TimestampSource: extract.SourceDocument},
	}
}

func encode(t *testing.T, samples []extract.Sample, opts ...EncoderOption) []byte {
	t.Helper()
	enc, err := NewEncoder(opts...)
	require.NoError(t, err)

	for _, s := range samples {
		require.NoError(t, enc.Add(s))
	}
	require.Equal(t, len(samples), enc.Len())

	data, err := enc.Finish()
	require.NoError(t, err)

	return data
}

// ==============================================================================
// Round-trip Tests
// ==============================================================================

func TestRoundTrip(t *testing.T) {
	samples := testSamples(t)
	decoded, err := Decode(encode(t, samples))
	require.NoError(t, err)
	require.Equal(t, len(samples), decoded.Len())
	require.Equal(t, compress.None, decoded.Compression())

	i := 0
	for idx, p := range decoded.All() {
		require.Equal(t, i, idx)
		want := samples[i]
		require.Equal(t, want.Key, p.Sample.Key)
		require.Equal(t, hash.ID(want.Key), p.SeriesID)
		require.Equal(t, want.Value, p.Sample.Value)
		require.Equal(t, want.TimestampSource, p.Sample.TimestampSource)
		require.True(t, p.Sample.Timestamp.Equal(want.Timestamp),
			"timestamps survive at microsecond precision")
		i++
	}
	require.Equal(t, len(samples), i)
}

func TestRoundTripWithCompression(t *testing.T) {
	samples := testSamples(t)

	for _, ct := range []compress.Type{compress.Zstd, compress.S2, compress.LZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			decoded, err := Decode(encode(t, samples, WithCompression(ct)))
			require.NoError(t, err)
			require.Equal(t, ct, decoded.Compression())
			require.Equal(t, len(samples), decoded.Len())

			for i, p := range decoded.All() {
				require.Equal(t, samples[i].Key, p.Sample.Key)
				require.Equal(t, samples[i].Value, p.Sample.Value)
			}
		})
	}
}

func TestEmptyBatch(t *testing.T) {
	decoded, err := Decode(encode(t, nil))
	require.NoError(t, err)
	require.Equal(t, 0, decoded.Len())
}

func TestAddAllFromExtraction(t *testing.T) {
	doc, err := jsontree.ParseString(`{"time": "2024-05-01T10:00:00Z", "temperature": 24.7, "pressure": 1020.99}`)
	require.NoError(t, err)

	extractor, err := extract.NewExtractor(extract.WithRecursive(true))
	require.NoError(t, err)

	enc, err := NewEncoder(WithCompression(compress.S2))
	require.NoError(t, err)
	require.NoError(t, enc.AddAll(extractor.Extract(doc)))

	data, err := enc.Finish()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 2, decoded.Len())
}

// ==============================================================================
// Error Handling Tests
// ==============================================================================

func TestEncoderRejectsUseAfterFinish(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	_, err = enc.Finish()
	require.NoError(t, err)

	require.ErrorIs(t, enc.Add(extract.Sample{Key: "k"}), errs.ErrBatchFinished)
	_, err = enc.Finish()
	require.ErrorIs(t, err, errs.ErrBatchFinished)
}

func TestNewEncoderRejectsUnknownCompression(t *testing.T) {
	_, err := NewEncoder(WithCompression(compress.Type(0xAA)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestDecodeRejectsMalformedData(t *testing.T) {
	valid := encode(t, testSamples(t))

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "too short", data: valid[:4]},
		{name: "bad magic", data: append([]byte{0, 0, 0, 0}, valid[4:]...)},
		{name: "bad version", data: mutate(valid, 4, 0xFF)},
		{name: "bad compression", data: mutate(valid, 5, 0xFF)},
		{name: "truncated body", data: valid[:len(valid)-3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, errs.ErrInvalidBatch)
		})
	}
}

func mutate(data []byte, pos int, val byte) []byte {
	out := append([]byte(nil), data...)
	out[pos] = val

	return out
}
