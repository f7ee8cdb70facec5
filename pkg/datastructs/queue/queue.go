package queue

// Queue is a generic interface for non-blocking FIFO queues.
type Queue[T any] interface {
	// Enqueue adds an item to the queue.
	// Returns true if successful, false if the queue is full.
	Enqueue(item T) bool

	// Dequeue removes and returns an item from the queue.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	Dequeue() (T, bool)

	// Capacity returns the current capacity bound of the queue.
	Capacity() int
}

// Blocking is a Queue whose producers and consumers can also wait for space or data.
type Blocking[T any] interface {
	Queue[T]

	// PushBlocking waits until there is room for item, then enqueues it.
	PushBlocking(item T)

	// PopBlocking waits until an item is available, then dequeues it.
	PopBlocking() T
}

// Hooks are called on every successful push and pop, while the queue lock is held.
// They must not call back into the queue. Either func may be nil.
type Hooks[T any] struct {
	OnPush func(item T)
	OnPop  func(item T)
}

func (h Hooks[T]) pushed(item T) {
	if h.OnPush != nil {
		h.OnPush(item)
	}
}

func (h Hooks[T]) popped(item T) {
	if h.OnPop != nil {
		h.OnPop(item)
	}
}
