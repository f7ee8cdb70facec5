// Package bytequeue is the flow-control primitive between protocol layers: a
// bounded PDU queue that also knows, in O(1), how many payload bytes it holds.
//
// Producers (segmentation, ciphering) call Write to be throttled by the
// consumer, or TryWrite to get the PDU back when the queue is full. A single
// consumer (the transmission scheduler) calls Read, TryRead, or sizes the next
// transmission with SizeTailBytes and ReadGrant. A control-plane owner calls
// Resize, Apply and, only after detecting counter drift, Reset.
package bytequeue

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-ran/pkg/datastructs/buffer"
	"github.com/huynhanx03/go-ran/pkg/datastructs/queue"
	"github.com/huynhanx03/go-ran/pkg/settings"
)

// DefaultCapacity is the capacity used when New is given a non-positive one.
const DefaultCapacity = 128

const (
	minWriteBackoff = 50 * time.Microsecond
	maxWriteBackoff = 5 * time.Millisecond
)

// Queue is a bounded FIFO of PDUs with byte accounting.
type Queue struct {
	pdus    *queue.Bounded[*buffer.Buffer]
	counter ByteCounter // guarded by the pdus lock

	name    string
	log     *zap.Logger
	metrics *queueMetrics
}

// New creates a queue holding at most capacity PDUs.
// It fails only if metric registration fails.
func New(capacity int, opts ...Option) (*Queue, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	o := applyOptions(opts...)

	q := &Queue{
		name: o.name,
		log:  o.log.With(zap.String("queue", o.name)),
	}
	if o.registry != nil {
		m, err := newQueueMetrics(o.registry, o.namespace, o.name)
		if err != nil {
			return nil, err
		}
		q.metrics = m
		m.resized(capacity)
	}

	q.pdus = queue.NewBounded(capacity, queue.Hooks[*buffer.Buffer]{
		OnPush: q.onPush,
		OnPop:  q.onPop,
	})
	return q, nil
}

// FromConfig creates a queue from its settings section.
func FromConfig(cfg settings.Queue, opts ...Option) (*Queue, error) {
	opts = append([]Option{WithName(cfg.Name)}, opts...)
	return New(cfg.Capacity, opts...)
}

func (q *Queue) onPush(pdu *buffer.Buffer) {
	q.counter.Add(pdu.Len())
	q.metrics.pushed(q.counter.Total())
}

func (q *Queue) onPop(pdu *buffer.Buffer) {
	q.counter.Sub(pdu.Len())
	q.metrics.popped(q.counter.Total())
}

// Write enqueues pdu, blocking the producer until there is room.
// It never times out; producers that cannot stall use TryWrite or WriteContext.
func (q *Queue) Write(pdu *buffer.Buffer) {
	q.pdus.PushBlocking(pdu)
}

// TryWrite enqueues pdu if there is room. Otherwise it returns a
// *RejectedError carrying pdu back; errors.Is(err, ErrQueueFull) holds.
func (q *Queue) TryWrite(pdu *buffer.Buffer) error {
	if q.pdus.TryPush(pdu) {
		return nil
	}
	q.metrics.reject()
	q.log.Debug("pdu rejected, queue full", zap.Int("bytes", pdu.Len()))
	return &RejectedError{PDU: pdu}
}

// WriteContext retries TryWrite with exponential backoff until it succeeds or
// ctx is done. On cancellation the PDU stays with the caller.
func (q *Queue) WriteContext(ctx context.Context, pdu *buffer.Buffer) error {
	backoff := minWriteBackoff
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		if q.pdus.TryPush(pdu) {
			return nil
		}
		timer.Reset(backoff)
		select {
		case <-ctx.Done():
			q.metrics.reject()
			return errors.Wrapf(ctx.Err(), "bytequeue: write to %s", q.name)
		case <-timer.C:
		}
		backoff = min(2*backoff, maxWriteBackoff)
	}
}

// Read dequeues the head PDU, blocking until one is available.
func (q *Queue) Read() *buffer.Buffer {
	return q.pdus.PopBlocking()
}

// TryRead dequeues the head PDU into out. It returns false and leaves out
// untouched when the queue is empty.
func (q *Queue) TryRead(out **buffer.Buffer) bool {
	return q.pdus.TryPop(out)
}

// ReadGrant dequeues head PDUs for as long as the next one fits in the bytes
// left of grant, as when filling a transmission opportunity. It returns the
// PDUs in order and the bytes they use.
func (q *Queue) ReadGrant(grant int) ([]*buffer.Buffer, int) {
	var (
		pdus []*buffer.Buffer
		used int
	)
	fits := func(pdu *buffer.Buffer) bool {
		return pdu.Len() <= grant-used
	}
	for {
		pdu, ok := q.pdus.TryPopIf(fits)
		if !ok {
			return pdus, used
		}
		pdus = append(pdus, pdu)
		used += pdu.Len()
	}
}

// Resize changes the capacity. Queued PDUs are never dropped; shrinking below
// the current size holds producers back until the consumer drains it.
func (q *Queue) Resize(capacity int) {
	q.pdus.SetSize(capacity)
	capacity = q.pdus.Capacity()
	q.metrics.resized(capacity)
	q.log.Info("queue resized", zap.Int("capacity", capacity), zap.Int("size", q.Size()))
}

// Apply reconfigures the queue from its settings section.
func (q *Queue) Apply(cfg settings.Queue) {
	if cfg.Capacity != q.Capacity() {
		q.Resize(cfg.Capacity)
	}
}

// Size returns the number of queued PDUs.
func (q *Queue) Size() int {
	return q.pdus.Size()
}

// Capacity returns the current capacity bound.
func (q *Queue) Capacity() int {
	return q.pdus.Capacity()
}

// SizeBytes returns the payload bytes queued, from the running counter.
func (q *Queue) SizeBytes() uint64 {
	var n uint64
	q.pdus.WithLock(func() { n = q.counter.Total() })
	return n
}

// SizeTailBytes returns the length of the PDU that Read would return next,
// 0 if the queue is empty or the head is nil.
func (q *Queue) SizeTailBytes() int {
	var n int
	q.pdus.TryCallOnFront(func(pdu *buffer.Buffer) {
		n = pdu.Len()
	})
	return n
}

// Reset forces the byte counter to zero without touching the queued PDUs.
// It is a recovery action for a caller that has detected counter drift, never
// part of the normal data path.
func (q *Queue) Reset() {
	var prev, drift uint64
	q.pdus.WithLock(func() {
		drift = q.counter.Drift()
		prev = q.counter.Reset()
		q.metrics.reset()
	})
	size := q.Size()
	q.log.Warn("byte counter reset",
		zap.Uint64("discarded_bytes", prev),
		zap.Uint64("clamped_bytes", drift),
		zap.Int("size", size),
	)
}

// Drift returns the bytes the counter clamped away since the last Reset.
// It grows when a PDU gets longer while queued, and when PDUs that were
// queued at the time of a Reset are read, since Reset already wrote their
// bytes off.
func (q *Queue) Drift() uint64 {
	var n uint64
	q.pdus.WithLock(func() { n = q.counter.Drift() })
	return n
}

// IsEmpty reports whether no PDU is queued.
func (q *Queue) IsEmpty() bool {
	return q.pdus.Empty()
}

// IsFull reports whether a write would be refused right now.
func (q *Queue) IsFull() bool {
	return q.pdus.Full()
}

// Clear dequeues every PDU through the normal read path and passes each to
// release, or releases it back to its pool when release is nil. It returns
// the number of PDUs removed. Used when the owning endpoint is torn down.
func (q *Queue) Clear(release func(*buffer.Buffer)) int {
	var (
		pdu *buffer.Buffer
		n   int
	)
	for q.pdus.TryPop(&pdu) {
		n++
		if release != nil {
			release(pdu)
		} else if pdu != nil {
			_ = pdu.Release()
		}
		pdu = nil
	}
	return n
}
