package pool

import "sync"

// batchBufferDefaultSize is the initial capacity of pooled batch buffers;
// batchBufferMaxThreshold caps what is retained by the pool so one oversized
// encode does not pin memory for the life of the process.
const (
	batchBufferDefaultSize  = 16 * 1024
	batchBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a minimal growable byte buffer used by the batch encoder.
type ByteBuffer struct {
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes written so far.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer while keeping its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Write appends data, growing the buffer as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteString appends s, growing the buffer as needed.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

var batchBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, batchBufferDefaultSize)}
	},
}

// GetBatchBuffer rents a ByteBuffer for encoding a sample batch.
func GetBatchBuffer() *ByteBuffer {
	bb, _ := batchBufferPool.Get().(*ByteBuffer)
	return bb
}

// PutBatchBuffer returns a buffer to the pool. Oversized buffers are dropped
// instead of retained.
func PutBatchBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > batchBufferMaxThreshold {
		return
	}
	bb.Reset()
	batchBufferPool.Put(bb)
}
