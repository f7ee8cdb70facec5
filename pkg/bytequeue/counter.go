package bytequeue

// ByteCounter is a running total of buffered payload bytes, kept in O(1) by
// the queue's push and pop hooks. It has no lock of its own: every access
// happens under the queue lock.
type ByteCounter struct {
	unread uint64
	drift  uint64 // bytes Sub could not take from the total since the last Reset
}

// Add accounts for a pushed PDU of n bytes.
func (c *ByteCounter) Add(n int) {
	if n > 0 {
		c.unread += uint64(n)
	}
}

// Sub accounts for a popped PDU of n bytes. The total never goes below zero
// and the excess is recorded as drift. A pop larger than the total happens
// when a PDU grew while queued, or when PDUs queued before a Reset are read.
func (c *ByteCounter) Sub(n int) {
	if n <= 0 {
		return
	}
	d := uint64(n)
	if d > c.unread {
		c.drift += d - c.unread
		d = c.unread
	}
	c.unread -= d
}

// Total returns the buffered byte count.
func (c *ByteCounter) Total() uint64 {
	return c.unread
}

// Drift returns the bytes clamped away since the last Reset.
func (c *ByteCounter) Drift() uint64 {
	return c.drift
}

// Reset zeroes the counter and returns the value it held.
func (c *ByteCounter) Reset() uint64 {
	prev := c.unread
	c.unread = 0
	c.drift = 0
	return prev
}
