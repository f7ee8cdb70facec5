package bytequeue

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-ran/pkg/datastructs/buffer"
)

// ErrQueueFull is the cause of every rejected TryWrite.
var ErrQueueFull = errors.New("bytequeue: queue full")

// RejectedError hands a PDU refused by a full queue back to its producer,
// which may retry, discard or escalate.
type RejectedError struct {
	PDU *buffer.Buffer
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("bytequeue: queue full, rejected %d byte pdu", e.PDU.Len())
}

// Unwrap makes errors.Is(err, ErrQueueFull) hold.
func (e *RejectedError) Unwrap() error {
	return ErrQueueFull
}

// Rejected returns the PDU carried by a RejectedError anywhere in err's chain.
func Rejected(err error) (*buffer.Buffer, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.PDU, true
	}
	return nil, false
}
