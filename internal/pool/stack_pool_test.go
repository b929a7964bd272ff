package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackPoolGetPut(t *testing.T) {
	p := NewStackPool[*int]()

	s := p.Get(8)
	require.Empty(t, s)
	require.GreaterOrEqual(t, cap(s), 8)

	x := 42
	s = append(s, &x, &x, &x)
	p.Put(s, 3)

	// The used portion must have been cleared so the pool retains no stale
	// references.
	reused := p.Get(2)
	full := reused[:cap(reused)]
	for i := range full {
		require.Nil(t, full[i])
	}
}

func TestStackPoolPutClampsUsed(t *testing.T) {
	p := NewStackPool[int]()
	s := p.Get(4)
	require.NotPanics(t, func() { p.Put(s, cap(s)+10) })
}

func TestStackPoolConcurrentRentals(t *testing.T) {
	p := NewStackPool[int]()

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := p.Get(16)
				for j := 0; j < 16; j++ {
					s = append(s, seed)
				}
				// Each rental is private: nobody else may have written here.
				for _, v := range s {
					if v != seed {
						t.Errorf("cross-contaminated rental: got %d, want %d", v, seed)
						return
					}
				}
				p.Put(s, len(s))
			}
		}(g)
	}
	wg.Wait()
}

func TestBatchBufferPool(t *testing.T) {
	bb := GetBatchBuffer()
	require.NotNil(t, bb)
	require.Zero(t, bb.Len())

	_, err := bb.WriteString("payload")
	require.NoError(t, err)
	require.Equal(t, 7, bb.Len())
	require.Equal(t, []byte("payload"), bb.Bytes())

	PutBatchBuffer(bb)

	bb = GetBatchBuffer()
	require.Zero(t, bb.Len(), "pooled buffers are reset on return")
	PutBatchBuffer(bb)
}
