package orchestration

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors that report pipeline activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageFallback *prometheus.CounterVec
	reviews       *prometheus.CounterVec
	active        prometheus.Gauge
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Collectors that are already registered are reused; any other registration
// error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewer",
			Subsystem: "orchestrator",
			Name:      "stage_duration_seconds",
			Help:      "Duration spent in each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage", "status"},
	)
	stageFallback := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewer",
			Subsystem: "orchestrator",
			Name:      "stage_fallbacks_total",
			Help:      "Stages whose output was replaced with defaults.",
		},
		[]string{"stage"},
	)
	reviews := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewer",
			Subsystem: "orchestrator",
			Name:      "reviews_total",
			Help:      "Completed reviews by final recommendation.",
		},
		[]string{"recommendation"},
	)
	active := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reviewer",
			Subsystem: "orchestrator",
			Name:      "reviews_active",
			Help:      "Number of reviews currently running.",
		},
	)

	collectors := []prometheus.Collector{stageDuration, stageFallback, reviews, active}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch collector {
				case stageDuration:
					stageDuration = already.ExistingCollector.(*prometheus.HistogramVec)
				case stageFallback:
					stageFallback = already.ExistingCollector.(*prometheus.CounterVec)
				case reviews:
					reviews = already.ExistingCollector.(*prometheus.CounterVec)
				case active:
					active = already.ExistingCollector.(prometheus.Gauge)
				}
				continue
			}
			panic(err)
		}
	}

	return &Metrics{
		stageDuration: stageDuration,
		stageFallback: stageFallback,
		reviews:       reviews,
		active:        active,
	}
}

// ObserveStage records the time spent in a stage with the provided status label.
func (m *Metrics) ObserveStage(stage, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage, status).Observe(d.Seconds())
}

// IncFallback counts a stage whose output was replaced with defaults.
func (m *Metrics) IncFallback(stage string) {
	if m == nil {
		return
	}
	m.stageFallback.WithLabelValues(stage).Inc()
}

// IncReview counts a compiled review.
func (m *Metrics) IncReview(recommendation string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(recommendation).Inc()
}

func (m *Metrics) start() {
	if m == nil {
		return
	}
	m.active.Inc()
}

func (m *Metrics) done() {
	if m == nil {
		return
	}
	m.active.Dec()
}
