// Package compress provides the optional payload compression used when
// packaging extracted samples into binary batches.
//
// Four codecs are available: None, Zstd, S2 and LZ4. Zstd has two
// implementations selected by build tag: a cgo-backed one (valyala/gozstd)
// and a pure-Go one (klauspost/compress/zstd).
package compress

import (
	"fmt"

	"github.com/wazzamatazz/json-time-series-extractor-sub000/errs"
)

// Type identifies a compression algorithm in the batch header.
type Type uint8

const (
	None Type = 0x1 // no compression
	Zstd Type = 0x2 // Zstandard
	S2   Type = 0x3 // S2 (Snappy-compatible)
	LZ4  Type = 0x4 // LZ4 block format
)

func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case Zstd:
		return "Zstd"
	case S2:
		return "S2"
	case LZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Codec compresses and decompresses whole batch payloads.
//
// Implementations must be safe for concurrent use. Returned slices are owned
// by the caller; input slices are never modified.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var builtinCodecs = map[Type]Codec{
	None: NewNoOpCodec(),
	Zstd: NewZstdCodec(),
	S2:   NewS2Codec(),
	LZ4:  NewLZ4Codec(),
}

// ForType returns the built-in codec for the given compression type.
func ForType(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompression, uint8(t))
}
