package filestore

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "msgstore"

type cacheMetrics struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	sets    prometheus.Counter
	entries prometheus.Gauge
}

func newCacheMetrics(reg prometheus.Registerer) (*cacheMetrics, error) {
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Reads served from the message cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Reads that loaded the message file into the cache.",
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "sets_total",
			Help:      "Cache writes caused by saves.",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Messages currently held in the cache.",
		}),
	}

	collectors := []prometheus.Collector{m.hits, m.misses, m.sets, m.entries}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			// Registration is all or nothing.
			for _, registered := range collectors[:i] {
				reg.Unregister(registered)
			}
			return nil, err
		}
	}
	return m, nil
}

// The record methods accept a nil receiver so callers need no metrics check.

func (m *cacheMetrics) recordHit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *cacheMetrics) recordMiss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *cacheMetrics) recordSet(size int) {
	if m != nil {
		m.sets.Inc()
		m.entries.Set(float64(size))
	}
}

func (m *cacheMetrics) recordSize(size int) {
	if m != nil {
		m.entries.Set(float64(size))
	}
}
