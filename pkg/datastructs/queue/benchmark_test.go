package queue

import (
	"testing"
)

// ===========================================================================
// Benchmark Configuration
// ===========================================================================

type queueBenchConfig struct {
	name     string
	capacity int
}

var benchConfigs = []queueBenchConfig{
	{"Small/Cap64", 64},
	{"Medium/Cap1K", 1024},
	{"Large/Cap64K", 64 * 1024},
}

// ===========================================================================
// Single-Threaded Benchmarks
// ===========================================================================

func BenchmarkTryPushTryPop(b *testing.B) {
	for _, cfg := range benchConfigs {
		b.Run(cfg.name, func(b *testing.B) {
			q := NewBounded[int](cfg.capacity, Hooks[int]{})
			var out int
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if !q.TryPush(i) {
					for q.TryPop(&out) {
					}
					q.TryPush(i)
				}
			}
		})
	}
}

func BenchmarkHooks(b *testing.B) {
	var total int
	q := NewBounded[int](1024, Hooks[int]{
		OnPush: func(n int) { total += n },
		OnPop:  func(n int) { total -= n },
	})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.TryPush(i)
		q.PopBlocking()
	}
}

// ===========================================================================
// Concurrent Benchmarks
// ===========================================================================

// BenchmarkProducersSingleConsumer measures blocking handoff with many
// producers feeding one consumer, the layer-boundary shape.
func BenchmarkProducersSingleConsumer(b *testing.B) {
	for _, cfg := range benchConfigs[:2] {
		b.Run(cfg.name, func(b *testing.B) {
			q := NewBounded[int](cfg.capacity, Hooks[int]{})
			done := make(chan struct{})
			go func() {
				for i := 0; i < b.N; i++ {
					q.PopBlocking()
				}
				close(done)
			}()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					q.PushBlocking(1)
				}
			})
			<-done
		})
	}
}
