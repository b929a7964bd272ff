// Package batch packages extracted samples into a compact binary buffer for
// hand-off to a time-series store.
//
// A batch holds the samples of one extraction run (or any other ordered
// collection of samples). Keys are stored once in a dictionary and referenced
// by index, timestamps are zigzag-varint delta encoded in sample order, and
// the whole payload may be compressed with any of the compress package's
// codecs. Decoded points carry the xxHash64 series ID of their key so
// ingestion can use fixed-size identifiers.
package batch

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/compress"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/extract"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/internal/options"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/internal/pool"
)

const (
	// batchMagic is the little-endian header magic, "TSSB" on the wire.
	batchMagic   uint32 = 0x42535354
	batchVersion byte   = 1

	// headerSize is magic + version + compression type.
	headerSize = 6
)

// Encoder accumulates samples and renders them as one binary batch.
//
// An Encoder is not safe for concurrent use and is not reusable: after
// Finish, create a new Encoder for the next batch.
type Encoder struct {
	compression compress.Type
	codec       compress.Codec

	samples  *pool.ByteBuffer
	keys     map[string]uint64
	keyOrder []string
	prevTS   int64
	count    uint64
	finished bool
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithCompression selects the payload compression. The default is None.
func WithCompression(t compress.Type) EncoderOption {
	return options.New(func(e *Encoder) error {
		codec, err := compress.ForType(t)
		if err != nil {
			return err
		}
		e.compression = t
		e.codec = codec

		return nil
	})
}

// NewEncoder creates a batch encoder. It fails if the configured compression
// type is unknown.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{
		compression: compress.None,
		codec:       compress.NewNoOpCodec(),
		samples:     pool.GetBatchBuffer(),
		keys:        make(map[string]uint64),
	}

	if err := options.Apply(e, opts...); err != nil {
		pool.PutBatchBuffer(e.samples)
		return nil, err
	}

	return e, nil
}

// Add appends one sample to the batch.
func (e *Encoder) Add(s extract.Sample) error {
	if e.finished {
		return errs.ErrBatchFinished
	}

	keyIdx, ok := e.keys[s.Key]
	if !ok {
		keyIdx = uint64(len(e.keyOrder))
		e.keys[s.Key] = keyIdx
		e.keyOrder = append(e.keyOrder, s.Key)
	}

	b := e.samples.B
	b = binary.AppendUvarint(b, keyIdx)

	// Timestamps are delta encoded in sample order at microsecond precision.
	ts := s.Timestamp.UnixMicro()
	b = binary.AppendVarint(b, ts-e.prevTS)
	e.prevTS = ts

	b = append(b, byte(s.TimestampSource), byte(s.Value.Kind()))

	switch s.Value.Kind() {
	case extract.KindNumber:
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(s.Value.Number()))
	case extract.KindString:
		b = appendString(b, s.Value.Text())
	case extract.KindRawJSON:
		b = appendString(b, s.Value.RawJSON())
	case extract.KindBool:
		var v byte
		if s.Value.Bool() {
			v = 1
		}
		b = append(b, v)
	case extract.KindNull:
		// no payload
	}

	e.samples.B = b
	e.count++

	return nil
}

// AddAll drains a sample sequence into the batch. It pairs directly with
// Extractor.Extract.
func (e *Encoder) AddAll(samples iter.Seq[extract.Sample]) error {
	for s := range samples {
		if err := e.Add(s); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of samples added so far.
func (e *Encoder) Len() int {
	return int(e.count) //nolint:gosec
}

// Finish assembles and returns the batch bytes. The encoder cannot be used
// afterwards.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrBatchFinished
	}
	e.finished = true
	defer func() {
		pool.PutBatchBuffer(e.samples)
		e.samples = nil
	}()

	body := pool.GetBatchBuffer()
	defer pool.PutBatchBuffer(body)

	b := binary.AppendUvarint(body.B, uint64(len(e.keyOrder)))
	for _, key := range e.keyOrder {
		b = appendString(b, key)
	}
	b = binary.AppendUvarint(b, e.count)
	b = append(b, e.samples.B...)
	body.B = b

	payload, err := e.codec.Compress(body.B)
	if err != nil {
		return nil, fmt.Errorf("compress batch payload: %w", err)
	}

	out := make([]byte, 0, headerSize+len(payload))
	out = binary.LittleEndian.AppendUint32(out, batchMagic)
	out = append(out, batchVersion, byte(e.compression))
	out = append(out, payload...)

	return out, nil
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}
