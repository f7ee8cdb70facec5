package bytequeue

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// queueMetrics mirrors the queue state into Prometheus. The push/pop updates
// run inside the hooks, under the queue lock.
type queueMetrics struct {
	writes   prometheus.Counter
	reads    prometheus.Counter
	rejected prometheus.Counter
	resets   prometheus.Counter

	size      prometheus.Gauge
	sizeBytes prometheus.Gauge
	capacity  prometheus.Gauge
}

func newQueueMetrics(reg prometheus.Registerer, namespace, name string) (*queueMetrics, error) {
	labels := prometheus.Labels{"queue": name}
	counter := func(metric, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pdu_queue",
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		})
	}
	gauge := func(metric, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "pdu_queue",
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		})
	}

	m := &queueMetrics{
		writes:    counter("writes_total", "PDUs accepted into the queue"),
		reads:     counter("reads_total", "PDUs removed from the queue"),
		rejected:  counter("rejected_total", "Non-blocking writes refused because the queue was full"),
		resets:    counter("resets_total", "Manual byte counter resets"),
		size:      gauge("size", "PDUs currently queued"),
		sizeBytes: gauge("size_bytes", "Payload bytes currently queued"),
		capacity:  gauge("capacity", "Current capacity bound in PDUs"),
	}

	collectors := []prometheus.Collector{
		m.writes, m.reads, m.rejected, m.resets, m.size, m.sizeBytes, m.capacity,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, errors.Wrapf(err, "bytequeue: register metrics for queue %q", name)
		}
	}
	return m, nil
}

func (m *queueMetrics) pushed(bytes uint64) {
	if m == nil {
		return
	}
	m.writes.Inc()
	m.size.Inc()
	m.sizeBytes.Set(float64(bytes))
}

func (m *queueMetrics) popped(bytes uint64) {
	if m == nil {
		return
	}
	m.reads.Inc()
	m.size.Dec()
	m.sizeBytes.Set(float64(bytes))
}

func (m *queueMetrics) reject() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

func (m *queueMetrics) reset() {
	if m == nil {
		return
	}
	m.resets.Inc()
	m.sizeBytes.Set(0)
}

func (m *queueMetrics) resized(capacity int) {
	if m == nil {
		return
	}
	m.capacity.Set(float64(capacity))
}
