package bytequeue

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Queue.
type Option func(*options)

type options struct {
	name      string
	log       *zap.Logger
	registry  prometheus.Registerer
	namespace string
}

// WithName names the queue in logs and metric labels. Defaults to "default".
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics registers the queue's Prometheus metrics on registry under namespace.
// A nil registry disables metrics.
func WithMetrics(registry prometheus.Registerer, namespace string) Option {
	return func(o *options) {
		o.registry = registry
		o.namespace = namespace
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{
		name: "default",
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
