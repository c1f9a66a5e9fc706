package observe

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/delaneyj/observeparty/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// OnErrorFunc receives errors returned or panics raised by a computation.
type OnErrorFunc func(from Subscriber, err error)

// System owns the process-wide pieces of the engine: the observation switch,
// the per-goroutine target register, logging and metrics. Everything created
// through a System shares them.
type System struct {
	logger          *slog.Logger
	production      bool
	serverRendering bool
	onError         OnErrorFunc
	metrics         *metrics.Metrics

	observing atomic.Bool

	// goroutine id -> *targetStack
	targets sync.Map
}

type Option func(*System)

// WithLogger sets the logger used for development warnings.
// If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(rs *System) {
		rs.logger = logger
	}
}

// WithProduction silences development warnings and skips onWrite hooks.
func WithProduction(production bool) Option {
	return func(rs *System) {
		rs.production = production
	}
}

// WithServerRendering disables creation of new Observers, as values rendered
// once on a server never change afterwards.
func WithServerRendering(serverRendering bool) Option {
	return func(rs *System) {
		rs.serverRendering = serverRendering
	}
}

func WithErrorHandler(onError OnErrorFunc) Option {
	return func(rs *System) {
		rs.onError = onError
	}
}

// WithMetrics registers the engine counters on reg.
func WithMetrics(reg prometheus.Registerer, opts ...metrics.Option) Option {
	return func(rs *System) {
		rs.metrics = metrics.New(reg, opts...)
	}
}

func NewSystem(opts ...Option) *System {
	rs := &System{}
	rs.observing.Store(true)
	for _, opt := range opts {
		opt(rs)
	}
	if rs.logger == nil {
		rs.logger = slog.Default()
	}
	return rs
}

var (
	defaultSystem     *System
	defaultSystemOnce sync.Once
)

// Default returns a lazily created System with default options.
func Default() *System {
	defaultSystemOnce.Do(func() {
		defaultSystem = NewSystem()
	})
	return defaultSystem
}

// ToggleObserving turns creation of new Observers on or off. Values that
// already carry an Observer keep it either way.
func (rs *System) ToggleObserving(enabled bool) {
	rs.observing.Store(enabled)
}

func (rs *System) Observing() bool {
	return rs.observing.Load()
}

func (rs *System) Production() bool {
	return rs.production
}

// Stats reports the engine counters. It is zero unless WithMetrics was used.
func (rs *System) Stats() metrics.Snapshot {
	return rs.metrics.Snapshot()
}

func (rs *System) warn(err error, msg string, args ...any) {
	if rs.production {
		return
	}
	rs.metrics.Warned(err.Error())
	rs.logger.Warn("[observe] "+msg, append(args, "err", err)...)
}

func (rs *System) handleError(from Subscriber, err error) {
	if rs.onError != nil {
		rs.onError(from, err)
		return
	}
	var id uint64
	if from != nil {
		id = from.ID()
	}
	rs.logger.Error("[observe] computation failed", "subscriber", id, "err", err)
}

var idCounter atomic.Uint64

// nextID hands out ids for deps and subscribers. Notification order follows
// them, so they only ever increase.
func nextID() uint64 {
	return idCounter.Add(1)
}
