package batch

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/compress"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/extract"
	"github.com/wazzamatazz/json-time-series-extractor-sub000/internal/hash"
)

// Point is one decoded sample together with the series ID derived from its
// key.
type Point struct {
	// SeriesID is the xxHash64 of Sample.Key.
	SeriesID uint64

	// Sample is the decoded sample.
	Sample extract.Sample
}

// Batch is a fully decoded sample batch.
type Batch struct {
	compression compress.Type
	points      []Point
}

// Decode validates and decodes a batch produced by Encoder.Finish. Malformed
// or truncated data fails with errs.ErrInvalidBatch.
func Decode(data []byte) (*Batch, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", errs.ErrInvalidBatch, len(data))
	}
	if binary.LittleEndian.Uint32(data) != batchMagic {
		return nil, fmt.Errorf("%w: bad magic", errs.ErrInvalidBatch)
	}
	if data[4] != batchVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidBatch, data[4])
	}

	compression := compress.Type(data[5])
	codec, err := compress.ForType(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidBatch, err)
	}

	body, err := codec.Decompress(data[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: decompress payload: %v", errs.ErrInvalidBatch, err)
	}

	r := reader{buf: body}

	keyCount := r.uvarint()
	keys := make([]string, 0, min(keyCount, uint64(len(body))))
	ids := make([]uint64, 0, cap(keys))
	for i := uint64(0); i < keyCount && !r.failed; i++ {
		key := r.string()
		keys = append(keys, key)
		ids = append(ids, hash.ID(key))
	}

	sampleCount := r.uvarint()
	// Cap the initial allocation at what the payload could plausibly hold;
	// the count itself is untrusted input.
	points := make([]Point, 0, min(sampleCount, uint64(len(body))))
	var prevTS int64
	for i := uint64(0); i < sampleCount && !r.failed; i++ {
		keyIdx := r.uvarint()
		if keyIdx >= uint64(len(keys)) {
			return nil, fmt.Errorf("%w: key index %d out of range", errs.ErrInvalidBatch, keyIdx)
		}

		prevTS += r.varint()
		source := extract.TimestampSource(r.byte())
		kind := extract.ValueKind(r.byte())

		var value extract.Value
		switch kind {
		case extract.KindNumber:
			value = extract.NumberValue(math.Float64frombits(r.uint64()))
		case extract.KindString:
			value = extract.StringValue(r.string())
		case extract.KindRawJSON:
			value = extract.RawJSONValue(r.string())
		case extract.KindBool:
			value = extract.BoolValue(r.byte() != 0)
		case extract.KindNull:
			value = extract.NullValue()
		default:
			return nil, fmt.Errorf("%w: unknown value kind %d", errs.ErrInvalidBatch, kind)
		}

		points = append(points, Point{
			SeriesID: ids[keyIdx],
			Sample: extract.Sample{
				Key:             keys[keyIdx],
				Timestamp:       time.UnixMicro(prevTS),
				Value:           value,
				TimestampSource: source,
			},
		})
	}

	if r.failed {
		return nil, fmt.Errorf("%w: truncated payload", errs.ErrInvalidBatch)
	}

	return &Batch{compression: compression, points: points}, nil
}

// Compression returns the compression type recorded in the batch header.
func (b *Batch) Compression() compress.Type {
	return b.compression
}

// Len returns the number of samples in the batch.
func (b *Batch) Len() int {
	return len(b.points)
}

// All iterates the batch's points in encoding order.
func (b *Batch) All() iter.Seq2[int, Point] {
	return func(yield func(int, Point) bool) {
		for i, p := range b.points {
			if !yield(i, p) {
				return
			}
		}
	}
}

// reader is a cursor over the decoded body; the failed flag latches on the
// first short read so decoding can bail out once at the end.
type reader struct {
	buf    []byte
	pos    int
	failed bool
}

func (r *reader) uvarint() uint64 {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		r.failed = true
		return 0
	}
	r.pos += n

	return v
}

func (r *reader) varint() int64 {
	v, n := binary.Varint(r.buf[r.pos:])
	if n <= 0 {
		r.failed = true
		return 0
	}
	r.pos += n

	return v
}

func (r *reader) byte() byte {
	if r.pos >= len(r.buf) {
		r.failed = true
		return 0
	}
	b := r.buf[r.pos]
	r.pos++

	return b
}

func (r *reader) uint64() uint64 {
	if r.pos+8 > len(r.buf) {
		r.failed = true
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8

	return v
}

func (r *reader) string() string {
	n := r.uvarint()
	if r.failed || n > uint64(len(r.buf)-r.pos) {
		r.failed = true
		return ""
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)

	return s
}
