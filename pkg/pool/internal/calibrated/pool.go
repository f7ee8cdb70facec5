package calibrated

import (
	"sort"
	"sync"
	"sync/atomic"
)

const (
	MinBitSize = 6  // 64 bytes (CPU cache line)
	Steps      = 16 // 64B to 2MB, well above any single PDU

	MinSize = 1 << MinBitSize
	MaxSize = 1 << (MinBitSize + Steps - 1)

	CalibrateThreshold = 42000
	Percentile95       = 0.95
)

// Pool is a generic calibrated pool with power-of-two size buckets.
// Every item in bucket i holds at least BucketSize(i) bytes.
type Pool[T any] struct {
	calls       [Steps]uint64
	calibrating uint64
	defaultSize uint64
	maxSize     uint64
	buckets     [Steps]sync.Pool
	newFunc     func(size int) T
	sizeFunc    func(T) int
	resetFunc   func(T)

	gets     atomic.Uint64
	puts     atomic.Uint64
	discards atomic.Uint64
}

// Stats is a snapshot of pool traffic.
type Stats struct {
	Gets     uint64
	Puts     uint64
	Discards uint64
	Buckets  [Steps]uint64
}

// New creates a new calibrated pool.
func New[T any](newFunc func(size int) T, sizeFunc func(T) int, resetFunc func(T)) *Pool[T] {
	p := &Pool[T]{
		newFunc:     newFunc,
		sizeFunc:    sizeFunc,
		resetFunc:   resetFunc,
		defaultSize: MinSize,
	}
	for i := range p.buckets {
		size := MinSize << i
		p.buckets[i].New = func() any {
			return newFunc(size)
		}
	}
	return p
}

// Get returns an item of at least the given size.
func (p *Pool[T]) Get(size int) T {
	p.gets.Add(1)
	if size <= 0 {
		size = MinSize
	}

	idx := SizeToIndex(size)
	if idx >= Steps {
		return p.newFunc(size)
	}
	return p.buckets[idx].Get().(T)
}

// Put returns an item to the pool. Items too small, too large or above the
// calibrated max are dropped for the GC.
func (p *Pool[T]) Put(item T) {
	p.puts.Add(1)
	size := p.sizeFunc(item)

	idx := floorIndex(size)
	if idx < 0 || idx >= Steps {
		p.discards.Add(1)
		return
	}

	if atomic.AddUint64(&p.calls[idx], 1) > CalibrateThreshold {
		p.calibrate()
	}

	max := int(atomic.LoadUint64(&p.maxSize))
	if max > 0 && size > max {
		p.discards.Add(1)
		return
	}

	if p.resetFunc != nil {
		p.resetFunc(item)
	}
	p.buckets[idx].Put(item)
}

// calibrate resets the per-bucket put counts and derives the default and max
// sizes from them. Only one goroutine calibrates at a time.
func (p *Pool[T]) calibrate() {
	if !atomic.CompareAndSwapUint64(&p.calibrating, 0, 1) {
		return
	}
	defer atomic.StoreUint64(&p.calibrating, 0)

	var calls [Steps]uint64
	for i := range p.calls {
		calls[i] = atomic.SwapUint64(&p.calls[i], 0)
	}
	defaultSize, maxSize := calibratedSizes(calls)
	atomic.StoreUint64(&p.defaultSize, defaultSize)
	atomic.StoreUint64(&p.maxSize, maxSize)
}

// calibratedSizes returns the size of the busiest bucket and the largest size
// among the busiest buckets that together cover Percentile95 of all puts.
func calibratedSizes(calls [Steps]uint64) (defaultSize, maxSize uint64) {
	stats := make(bucketStats, 0, Steps)
	var total uint64
	for i, c := range calls {
		stats = append(stats, bucket{calls: c, size: MinSize << i})
		total += c
	}
	sort.Stable(stats)

	defaultSize = stats[0].size
	maxSize = defaultSize
	threshold := uint64(float64(total) * Percentile95)

	var sum uint64
	for _, s := range stats {
		if sum > threshold {
			break
		}
		sum += s.calls
		maxSize = max(maxSize, s.size)
	}
	return defaultSize, maxSize
}

// DefaultSize returns the calibrated default size.
func (p *Pool[T]) DefaultSize() uint64 {
	return atomic.LoadUint64(&p.defaultSize)
}

// MaxSize returns the calibrated max size, 0 before the first calibration.
func (p *Pool[T]) MaxSize() uint64 {
	return atomic.LoadUint64(&p.maxSize)
}

// Stats returns traffic counters and per-bucket put counts since the last calibration.
func (p *Pool[T]) Stats() Stats {
	s := Stats{
		Gets:     p.gets.Load(),
		Puts:     p.puts.Load(),
		Discards: p.discards.Load(),
	}
	for i := range p.calls {
		s.Buckets[i] = atomic.LoadUint64(&p.calls[i])
	}
	return s
}

type bucket struct {
	calls uint64
	size  uint64
}

type bucketStats []bucket

func (b bucketStats) Len() int           { return len(b) }
func (b bucketStats) Less(i, j int) bool { return b[i].calls > b[j].calls }
func (b bucketStats) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// SizeToIndex returns the smallest bucket index whose size holds n.
func SizeToIndex(n int) int {
	n--
	n >>= MinBitSize
	idx := 0
	for n > 0 {
		n >>= 1
		idx++
	}
	return idx
}

// floorIndex returns the largest bucket index whose size is at most n, or -1.
func floorIndex(n int) int {
	if n < MinSize {
		return -1
	}
	idx := SizeToIndex(n)
	if MinSize<<idx > n {
		idx--
	}
	return idx
}

// BucketSize returns the size of bucket at index i.
func BucketSize(i int) int {
	if i < 0 || i >= Steps {
		return 0
	}
	return MinSize << i
}
