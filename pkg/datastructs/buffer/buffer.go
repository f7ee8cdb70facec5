package buffer

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrNoHeadroom is returned by Prepend when the header does not fit in front of the payload.
	ErrNoHeadroom = errors.New("buffer: not enough headroom")

	// ErrMaxLimit is returned when a write would grow the buffer past its max limit.
	ErrMaxLimit = errors.New("buffer: max limit exceeded")

	// ErrNegativeCount is returned by Allocate for a negative byte count.
	ErrNegativeCount = errors.New("buffer: negative count")
)

// Buffer is a PDU: an owned payload with headroom reserved in front of it so
// lower layers can prepend their headers without copying.
//
// The payload lives in data[start:end]. A Buffer is NOT thread-safe; it is
// owned by exactly one party at a time and handed over through queues.
type Buffer struct {
	data  []byte
	start int // first payload byte
	end   int // one past the last payload byte
	room  int // headroom reserved by New and restored by Reset
	max   int // maximum payload+headroom size, 0 means unlimited

	// ReleaseFn returns the buffer to its pool.
	// If nil, Release() simply drops the backing storage.
	ReleaseFn func()
}

// New creates a Buffer with DefaultHeadroom and room for capacity payload bytes.
func New(capacity int) *Buffer {
	return NewWithHeadroom(capacity, DefaultHeadroom)
}

// NewWithHeadroom creates a Buffer reserving headroom bytes in front of the payload.
func NewWithHeadroom(capacity, headroom int) *Buffer {
	if capacity < defaultCapacity {
		capacity = defaultCapacity
	}
	if headroom < 0 {
		headroom = 0
	}
	return &Buffer{
		data:  make([]byte, headroom+capacity),
		start: headroom,
		end:   headroom,
		room:  headroom,
	}
}

// WithMaxLimit sets the hard limit for buffer growth.
func (b *Buffer) WithMaxLimit(max int) *Buffer {
	b.max = max
	return b
}

// Len returns the number of payload bytes. A nil Buffer has length 0.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.end - b.start
}

// IsEmpty reports whether the payload is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// Headroom returns the bytes still available for Prepend.
func (b *Buffer) Headroom() int {
	return b.start
}

// Cap returns the size of the backing storage.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Bytes returns the payload. The slice is valid until the next mutation.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data[b.start:b.end]
}

// grow ensures there is tailroom for another n bytes.
func (b *Buffer) grow(n int) error {
	if b.data == nil {
		return errors.New("buffer: released")
	}
	need := b.end + n
	if need <= len(b.data) {
		return nil
	}
	if b.max > 0 && need > b.max {
		return errors.Wrapf(ErrMaxLimit, "limit %d, need %d", b.max, need)
	}

	size := 2 * len(b.data)
	if size < need {
		size = need
	}
	if b.max > 0 && size > b.max {
		size = b.max
	}
	data := make([]byte, size)
	copy(data, b.data[:b.end])
	b.data = data
	return nil
}

// Write appends p to the payload.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.grow(len(p)); err != nil {
		return 0, err
	}
	n := copy(b.data[b.end:], p)
	b.end += n
	return n, nil
}

// Allocate extends the payload by n bytes and returns them for direct writing.
// The returned slice is valid until the next mutation.
func (b *Buffer) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrNegativeCount, "allocate %d", n)
	}
	if err := b.grow(n); err != nil {
		return nil, err
	}
	off := b.end
	b.end += n
	return b.data[off:b.end], nil
}

// Prepend writes hdr immediately in front of the payload, consuming headroom.
func (b *Buffer) Prepend(hdr []byte) error {
	if len(hdr) > b.start {
		return errors.Wrapf(ErrNoHeadroom, "header %d bytes, headroom %d", len(hdr), b.start)
	}
	b.start -= len(hdr)
	copy(b.data[b.start:], hdr)
	return nil
}

// TrimFront drops n bytes from the front of the payload, returning them to headroom.
func (b *Buffer) TrimFront(n int) {
	n = min(max(n, 0), b.Len())
	b.start += n
}

// Truncate keeps the first n payload bytes.
func (b *Buffer) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < b.Len() {
		b.end = b.start + n
	}
}

// Reset empties the payload and restores the original headroom.
// The underlying memory is retained.
func (b *Buffer) Reset() {
	b.start = b.room
	b.end = b.room
}

// Release releases the memory used by the buffer or returns it to the pool.
// A released buffer without ReleaseFn is empty and has no headroom.
func (b *Buffer) Release() error {
	if b.ReleaseFn != nil {
		b.ReleaseFn()
	} else {
		b.data = nil
		b.start, b.end, b.room = 0, 0, 0
	}
	return nil
}

// WriteTo implements io.WriterTo for zero-copy writes to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	data := b.Bytes()
	if len(data) == 0 {
		return 0, nil
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom, appending everything read from r.
// With a max limit the buffer grows up to the limit and ErrMaxLimit is
// returned only once it is full.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if len(b.data)-b.end < readFromChunk {
			n := readFromChunk
			if b.max > 0 {
				n = min(n, b.max-b.end)
			}
			if n > 0 {
				if err := b.grow(n); err != nil {
					return total, err
				}
			}
			if b.end == len(b.data) {
				return total, errors.Wrapf(ErrMaxLimit, "limit %d", b.max)
			}
		}
		n, err := r.Read(b.data[b.end:])
		if n > 0 {
			b.end += n
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
