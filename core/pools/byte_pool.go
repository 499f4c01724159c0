package pools

import (
	"sync"
	"sync/atomic"
)

// BytePool is a multi-tiered byte slice pool sized for the read-buffer
// lifecycle in core/engine.go: a connection starts with an 8192-byte
// buffer, and growReadBuf doubles it whenever a read finds it full,
// until the whole head fits in one buffer.
type BytePool struct {
	pools []*sync.Pool
	sizes []int
	gets  atomic.Uint64
	puts  atomic.Uint64
}

// Common buffer sizes optimized for HTTP workloads.
var defaultSizes = []int{
	512,   // Small requests/responses
	2048,  // Medium (most common)
	8192,  // Large
	32768, // Extra large
}

// NewBytePool creates a new byte pool with standard size tiers.
func NewBytePool() *BytePool {
	return NewBytePoolWithSizes(defaultSizes)
}

// NewBytePoolWithSizes creates a byte pool with custom size tiers.
func NewBytePoolWithSizes(sizes []int) *BytePool {
	bp := &BytePool{
		pools: make([]*sync.Pool, len(sizes)),
		sizes: sizes,
	}

	for i, size := range sizes {
		sz := size // Capture for closure
		bp.pools[i] = &sync.Pool{
			New: func() any {
				buf := make([]byte, sz)
				return &buf
			},
		}
	}

	return bp
}

// Get returns a byte slice of at least the requested size.
func (bp *BytePool) Get(size int) []byte {
	bp.gets.Add(1)

	for i, poolSize := range bp.sizes {
		if size <= poolSize {
			bufPtr := bp.pools[i].Get().(*[]byte)
			buf := *bufPtr
			return buf[:size] // Return slice with requested length
		}
	}

	// Size too large for any tier, allocate directly.
	return make([]byte, size)
}

// Put returns a byte slice to the pool.
func (bp *BytePool) Put(buf []byte) {
	bp.puts.Add(1)
	capacity := cap(buf)

	for i, poolSize := range bp.sizes {
		if capacity == poolSize {
			buf = buf[:capacity]
			bp.pools[i].Put(&buf)
			return
		}
	}

	// Not from a known tier (an oversized read buffer grown past the
	// largest tier) -- let the GC reclaim it.
}

// Stats returns pool statistics.
func (bp *BytePool) Stats() BytePoolStats {
	gets := bp.gets.Load()
	puts := bp.puts.Load()
	return BytePoolStats{
		TotalGets:  gets,
		TotalPuts:  puts,
		ActiveBufs: int(gets - puts),
	}
}

// BytePoolStats reports how many read buffers are currently checked out
// of the pool versus sitting idle.
type BytePoolStats struct {
	TotalGets  uint64
	TotalPuts  uint64
	ActiveBufs int
}
