package compress

// ZstdCodec compresses payloads with Zstandard, trading some speed for the
// best ratio of the built-in codecs. The implementation is selected at build
// time: cgo builds use valyala/gozstd, pure-Go builds use
// klauspost/compress/zstd.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
