package queue

import (
	"sync"

	ring "github.com/eapache/queue"
)

var (
	_ Queue[int]    = (*Bounded[int])(nil)
	_ Blocking[int] = (*Bounded[int])(nil)
)

// minCapacity is the smallest capacity a Bounded queue accepts.
const minCapacity = 1

// Bounded is a thread-safe FIFO with a runtime adjustable capacity.
//
// It is a monitor: one mutex guards the items, the capacity and whatever state
// the hooks maintain, and two conditions on that mutex park pushers waiting for
// space and poppers waiting for data. Each state change that satisfies a
// waiting predicate wakes one waiter of the matching kind.
//
// Items are never evicted. Lowering the capacity below the current occupancy
// leaves the queue over capacity until the consumer drains it.
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  sync.Cond
	notEmpty sync.Cond

	items    *ring.Queue
	capacity int
	hooks    Hooks[T]

	// pushers blocked in PushBlocking, used to size wakeups on growth.
	waitingPushers int
}

// NewBounded creates a queue holding at most capacity items.
// A capacity below 1 is raised to 1.
func NewBounded[T any](capacity int, hooks Hooks[T]) *Bounded[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	q := &Bounded[T]{
		items:    ring.New(),
		capacity: capacity,
		hooks:    hooks,
	}
	q.notFull.L = &q.mu
	q.notEmpty.L = &q.mu
	return q
}

// PushBlocking takes ownership of item, waiting for as long as it takes for the
// occupancy to fall below the capacity. There is no timeout.
func (q *Bounded[T]) PushBlocking(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Length() >= q.capacity {
		q.waitingPushers++
		q.notFull.Wait()
		q.waitingPushers--
	}
	q.push(item)
}

// TryPush enqueues item if there is room. When the queue is full it returns
// false and item stays with the caller.
func (q *Bounded[T]) TryPush(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Length() >= q.capacity {
		return false
	}
	q.push(item)
	return true
}

// PopBlocking waits until an item is available and removes it from the head.
// FIFO order is only meaningful for a single consumer.
func (q *Bounded[T]) PopBlocking() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Length() == 0 {
		q.notEmpty.Wait()
	}
	return q.pop()
}

// TryPop removes the head into out. If the queue is empty it returns false and
// leaves out untouched.
func (q *Bounded[T]) TryPop(out *T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Length() == 0 {
		return false
	}
	*out = q.pop()
	return true
}

// TryPopIf removes the head only if pred accepts it. pred runs under the lock.
func (q *Bounded[T]) TryPopIf(pred func(item T) bool) (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.items.Length() == 0 || !pred(q.front()) {
		return zero, false
	}
	return q.pop(), true
}

// TryCallOnFront calls fn with the head item without removing it.
// It is a no-op returning false when the queue is empty.
func (q *Bounded[T]) TryCallOnFront(fn func(item T)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Length() == 0 {
		return false
	}
	fn(q.front())
	return true
}

// SetSize changes the capacity bound. Growth admits as many blocked pushers as
// there are new free slots. Poppers are never woken.
func (q *Bounded[T]) SetSize(capacity int) {
	if capacity < minCapacity {
		capacity = minCapacity
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.capacity = capacity
	wake := min(q.capacity-q.items.Length(), q.waitingPushers)
	for ; wake > 0; wake-- {
		q.notFull.Signal()
	}
}

// WithLock runs fn while holding the queue lock. It gives consistent access to
// state maintained by the hooks. fn must not call back into the queue.
func (q *Bounded[T]) WithLock(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fn()
}

// Enqueue implements Queue. It is TryPush.
func (q *Bounded[T]) Enqueue(item T) bool {
	return q.TryPush(item)
}

// Dequeue implements Queue.
func (q *Bounded[T]) Dequeue() (T, bool) {
	var item T
	ok := q.TryPop(&item)
	return item, ok
}

// Size returns the number of queued items.
func (q *Bounded[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Capacity returns the current capacity bound.
func (q *Bounded[T]) Capacity() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// Empty reports whether the queue holds no items.
func (q *Bounded[T]) Empty() bool {
	return q.Size() == 0
}

// Full reports whether a push would be refused right now. An over capacity
// queue is full.
func (q *Bounded[T]) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length() >= q.capacity
}

// push and pop must be called with mu held.

func (q *Bounded[T]) push(item T) {
	q.items.Add(item)
	q.hooks.pushed(item)
	q.notEmpty.Signal()
}

func (q *Bounded[T]) pop() T {
	item := unbox[T](q.items.Remove())
	q.hooks.popped(item)
	q.notFull.Signal()
	return item
}

func (q *Bounded[T]) front() T {
	return unbox[T](q.items.Peek())
}

// unbox converts a stored element back to T. A nil interface comes back as the
// zero value instead of panicking.
func unbox[T any](v any) T {
	item, _ := v.(T)
	return item
}
