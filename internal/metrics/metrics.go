package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Config configures the reactivity counters.
type Config struct {
	// Namespace is the metrics namespace (default: "observe").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// Metrics counts what the observation engine does. A nil *Metrics is valid
// and records nothing, so callers never need to check for it.
type Metrics struct {
	observersCreated  prometheus.Counter
	propertiesDefined prometheus.Counter
	depsNotified      prometheus.Counter
	subscriberUpdates prometheus.Counter
	listMutations     *prometheus.CounterVec
	warnings          *prometheus.CounterVec
}

// Snapshot is a point-in-time copy of the plain counters.
type Snapshot struct {
	ObserversCreated  float64
	PropertiesDefined float64
	DepsNotified      float64
	SubscriberUpdates float64
}

// New registers the counters on reg. Registering twice on the same
// registry panics, as with any promauto factory.
func New(reg prometheus.Registerer, opts ...Option) *Metrics {
	cfg := Config{Namespace: "observe"}
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		})
	}

	return &Metrics{
		observersCreated:  counter("observers_created_total", "Values wrapped by a new Observer"),
		propertiesDefined: counter("properties_defined_total", "Reactive properties installed"),
		depsNotified:      counter("deps_notified_total", "Dependency set broadcasts"),
		subscriberUpdates: counter("subscriber_updates_total", "Subscriber re-run callbacks invoked"),
		listMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "list_mutations_total",
			Help:        "Intercepted list mutations by method",
			ConstLabels: cfg.ConstLabels,
		}, []string{"method"}),
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "warnings_total",
			Help:        "Development warnings emitted, by reason",
			ConstLabels: cfg.ConstLabels,
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserverCreated() {
	if m == nil {
		return
	}
	m.observersCreated.Inc()
}

func (m *Metrics) PropertyDefined() {
	if m == nil {
		return
	}
	m.propertiesDefined.Inc()
}

// DepNotified records one broadcast reaching subscribers subscribers.
func (m *Metrics) DepNotified(subscribers int) {
	if m == nil {
		return
	}
	m.depsNotified.Inc()
	m.subscriberUpdates.Add(float64(subscribers))
}

func (m *Metrics) ListMutated(method string) {
	if m == nil {
		return
	}
	m.listMutations.WithLabelValues(method).Inc()
}

func (m *Metrics) Warned(reason string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(reason).Inc()
}

func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		ObserversCreated:  readCounter(m.observersCreated),
		PropertiesDefined: readCounter(m.propertiesDefined),
		DepsNotified:      readCounter(m.depsNotified),
		SubscriberUpdates: readCounter(m.subscriberUpdates),
	}
}

func readCounter(c prometheus.Counter) float64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	return pb.GetCounter().GetValue()
}
