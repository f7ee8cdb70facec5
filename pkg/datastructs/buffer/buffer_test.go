package buffer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance checks (compile-time)
var _ io.Writer = (*Buffer)(nil)
var _ io.WriterTo = (*Buffer)(nil)
var _ io.ReaderFrom = (*Buffer)(nil)

// =============================================================================
// Method: New()
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		wantMin  int
	}{
		{"valid_capacity", 1024, 1024},
		{"zero_uses_default", 0, defaultCapacity},
		{"small_uses_default", 10, defaultCapacity},
		{"negative_uses_default", -1, defaultCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.capacity)
			if b == nil {
				t.Fatal("New returned nil")
			}
			if got := b.Cap() - b.Headroom(); got < tt.wantMin {
				t.Errorf("payload capacity = %d, want >= %d", got, tt.wantMin)
			}
			if b.Headroom() != DefaultHeadroom {
				t.Errorf("Headroom() = %d, want %d", b.Headroom(), DefaultHeadroom)
			}
			if !b.IsEmpty() {
				t.Error("new buffer should be empty")
			}
		})
	}
}

func TestNewWithHeadroom_Negative(t *testing.T) {
	b := NewWithHeadroom(10, -3)
	assert.Equal(t, 0, b.Headroom())
	assert.ErrorIs(t, b.Prepend([]byte{1}), ErrNoHeadroom)
}

// =============================================================================
// Method: Len() / Bytes()
// =============================================================================

func TestLen_Nil(t *testing.T) {
	var b *Buffer
	assert.Equal(t, 0, b.Len())
	assert.True(t, b.IsEmpty())
	assert.Nil(t, b.Bytes())
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"single", []string{"hello"}, "hello"},
		{"multiple", []string{"he", "ll", "o"}, "hello"},
		{"empty", []string{""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(0)
			for _, p := range tt.parts {
				if _, err := b.Write([]byte(p)); err != nil {
					t.Fatalf("Write(%q) error = %v", p, err)
				}
			}
			if got := string(b.Bytes()); got != tt.want {
				t.Errorf("Bytes() = %q, want %q", got, tt.want)
			}
			if b.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", b.Len(), len(tt.want))
			}
		})
	}
}

func TestWrite_GrowKeepsHeadroom(t *testing.T) {
	b := New(0)
	data := bytes.Repeat([]byte{0xAB}, 10*1024)
	n, err := b.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, b.Bytes())
	assert.Equal(t, DefaultHeadroom, b.Headroom())
}

func TestWrite_MaxLimit(t *testing.T) {
	b := NewWithHeadroom(64, 8).WithMaxLimit(100)
	_, err := b.Write(make([]byte, 80))
	require.NoError(t, err)

	n, err := b.Write(make([]byte, 20))
	assert.ErrorIs(t, err, ErrMaxLimit)
	assert.Equal(t, 0, n)
	assert.Equal(t, 80, b.Len())
}

func TestAllocate(t *testing.T) {
	b := New(0)
	p, err := b.Allocate(4)
	require.NoError(t, err)
	copy(p, "abcd")
	assert.Equal(t, "abcd", string(b.Bytes()))
}

func TestAllocate_Negative(t *testing.T) {
	b := New(0)
	b.Write([]byte("abcd"))

	p, err := b.Allocate(-8)
	assert.ErrorIs(t, err, ErrNegativeCount)
	assert.Nil(t, p)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, "abcd", string(b.Bytes()))
}

// =============================================================================
// Method: Prepend() / TrimFront() / Truncate()
// =============================================================================

func TestPrepend(t *testing.T) {
	b := NewWithHeadroom(64, 4)
	b.Write([]byte("payload"))

	require.NoError(t, b.Prepend([]byte{0x01, 0x02}))
	assert.Equal(t, append([]byte{0x01, 0x02}, "payload"...), b.Bytes())
	assert.Equal(t, 2, b.Headroom())

	err := b.Prepend([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrNoHeadroom)
	assert.Equal(t, 9, b.Len(), "failed prepend must not change the payload")
}

func TestTrimFront(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{"header", 2, "llo"},
		{"zero", 0, "hello"},
		{"negative", -1, "hello"},
		{"beyond_len", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(0)
			b.Write([]byte("hello"))
			b.TrimFront(tt.n)
			if got := string(b.Bytes()); got != tt.want {
				t.Errorf("Bytes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	b := New(0)
	b.Write([]byte("hello"))
	b.Truncate(2)
	assert.Equal(t, "he", string(b.Bytes()))
	b.Truncate(10)
	assert.Equal(t, "he", string(b.Bytes()))
	b.Truncate(-1)
	assert.Equal(t, 0, b.Len())
}

// =============================================================================
// Method: Reset() / Release()
// =============================================================================

func TestReset_RestoresHeadroom(t *testing.T) {
	b := NewWithHeadroom(64, 16)
	b.Write([]byte("data"))
	b.Prepend([]byte{1, 2, 3})
	b.Reset()

	assert.True(t, b.IsEmpty())
	assert.Equal(t, 16, b.Headroom())
	b.Write([]byte("again"))
	assert.Equal(t, "again", string(b.Bytes()))
}

func TestRelease(t *testing.T) {
	b := New(0)
	b.Write([]byte("x"))
	require.NoError(t, b.Release())
	assert.Equal(t, 0, b.Len())

	_, err := b.Write([]byte("y"))
	assert.Error(t, err, "write after release")
}

func TestRelease_ThenReset(t *testing.T) {
	b := New(0)
	b.Write([]byte("x"))
	require.NoError(t, b.Release())

	b.Reset()
	assert.Empty(t, b.Bytes())
	assert.Zero(t, b.Len())
	assert.Zero(t, b.Headroom())
}

func TestRelease_ReleaseFn(t *testing.T) {
	called := 0
	b := New(0)
	b.ReleaseFn = func() { called++ }
	b.Release()
	assert.Equal(t, 1, called)
	assert.NotZero(t, b.Cap(), "pooled buffer keeps its storage")
}

// =============================================================================
// Method: WriteTo() / ReadFrom()
// =============================================================================

func TestWriteTo(t *testing.T) {
	b := New(0)
	b.Write([]byte("hello"))
	b.Prepend([]byte("> "))

	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "> hello", out.String())
}

func TestWriteTo_Empty(t *testing.T) {
	var out bytes.Buffer
	n, err := New(0).WriteTo(&out)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestReadFrom(t *testing.T) {
	src := strings.Repeat("radio", 1000)
	b := New(0)
	n, err := b.ReadFrom(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, string(b.Bytes()))
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestReadFrom_Error(t *testing.T) {
	_, err := New(0).ReadFrom(errReader{})
	assert.EqualError(t, err, "read failed")
}

func TestReadFrom_MaxLimit(t *testing.T) {
	tests := []struct {
		name    string
		src     int
		want    int
		wantErr bool
	}{
		{"fits_below_limit", 150, 150, false},
		{"stops_at_limit", 300, 200, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := bytes.Repeat([]byte{0x5A}, tt.src)
			b := NewWithHeadroom(64, 0).WithMaxLimit(200)

			n, err := b.ReadFrom(bytes.NewReader(src))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMaxLimit)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, int64(tt.want), n)
			assert.Equal(t, src[:tt.want], b.Bytes())
			assert.LessOrEqual(t, b.Cap(), 200)
		})
	}
}

func TestReadFrom_Released(t *testing.T) {
	b := New(0)
	require.NoError(t, b.Release())
	_, err := b.ReadFrom(strings.NewReader("late"))
	assert.Error(t, err)
}
