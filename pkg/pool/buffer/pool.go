// Package buffer pools PDU buffers by payload size class so producers can
// allocate and consumers release without churning the GC.
package buffer

import (
	"github.com/huynhanx03/go-ran/pkg/datastructs/buffer"
	"github.com/huynhanx03/go-ran/pkg/pool/internal/calibrated"
)

var defaultPool = calibrated.New(
	// newFunc: create Buffer with room for size payload bytes
	func(size int) *buffer.Buffer {
		return buffer.New(size)
	},
	// sizeFunc: payload capacity, headroom excluded
	func(b *buffer.Buffer) int {
		return b.Cap() - buffer.DefaultHeadroom
	},
	// resetFunc: empty the payload and detach from the pool
	func(b *buffer.Buffer) {
		b.Reset()
		b.ReleaseFn = nil
	},
)

// Get returns a buffer of the calibrated default size.
func Get() *buffer.Buffer {
	return GetSize(int(defaultPool.DefaultSize()))
}

// GetSize returns an empty buffer with room for at least size payload bytes.
// Calling Release on it puts it back into the pool.
func GetSize(size int) *buffer.Buffer {
	b := defaultPool.Get(size)
	b.ReleaseFn = func() { Put(b) }
	return b
}

// Put returns a buffer to the default pool. The caller must not use b afterwards.
func Put(b *buffer.Buffer) {
	if b == nil {
		return
	}
	defaultPool.Put(b)
}

// DefaultSize returns the calibrated default size.
func DefaultSize() uint64 {
	return defaultPool.DefaultSize()
}

// MaxSize returns the calibrated max size (95th percentile).
func MaxSize() uint64 {
	return defaultPool.MaxSize()
}

// Stats returns pool traffic counters.
func Stats() calibrated.Stats {
	return defaultPool.Stats()
}
