package bytequeue

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Producer feeds PDUs into q until it runs out of data, fails, or ctx is done.
type Producer func(ctx context.Context, q *Queue) error

// Pump runs producers concurrently against q, as bearers fanning in to one
// uplink queue. The first error cancels the context handed to the others and
// is returned once all of them have stopped.
func Pump(ctx context.Context, q *Queue, producers ...Producer) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range producers {
		g.Go(func() error {
			return p(ctx, q)
		})
	}
	return g.Wait()
}
