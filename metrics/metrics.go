// Package metrics exposes the walker's status surface as Prometheus
// gauges. It never touches the walker's internal state directly: callers
// hand it a small interface (NSECSource/NSEC3Source) satisfied by
// *walker.NSECWalker/*walker.NSEC3Walker, and every gauge is a
// GaugeFunc that pulls a fresh value on each scrape rather than being
// pushed to on every query.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anonion0/n3map/walker"
)

const namespace = "n3map"

// nolint
var reg = prometheus.NewRegistry()

// nolint
var enabled bool

// RegisterMetric adds a collector to the shared registry. Safe to call
// more than once for the same collector description; duplicate
// registration is ignored.
func RegisterMetric(c prometheus.Collector) {
	_ = reg.Register(c)
}

// NSECSource is satisfied by *walker.NSECWalker.
type NSECSource interface {
	Status() walker.Status
}

// NSEC3Source is satisfied by *walker.NSEC3Walker.
type NSEC3Source interface {
	Status() walker.NSEC3Status
}

// RegisterNSECGauges wires gauges reflecting src's live status into the
// shared registry.
func RegisterNSECGauges(src NSECSource) {
	RegisterMetric(gaugeFunc("queries_total", "Number of queries sent so far", func() float64 {
		return float64(src.Status().Queries)
	}))
	RegisterMetric(gaugeFunc("chain_size", "Number of NSEC records discovered so far", func() float64 {
		return float64(src.Status().ChainSize)
	}))
	RegisterMetric(gaugeFunc("query_rate", "Current queries per second", func() float64 {
		return src.Status().QueryRate
	}))
}

// RegisterNSEC3Gauges wires gauges reflecting src's live status into the
// shared registry.
func RegisterNSEC3Gauges(src NSEC3Source) {
	RegisterMetric(gaugeFunc("queries_total", "Number of queries sent so far", func() float64 {
		return float64(src.Status().Queries)
	}))
	RegisterMetric(gaugeFunc("chain_size", "Number of NSEC3 records discovered so far", func() float64 {
		return float64(src.Status().ChainSize)
	}))
	RegisterMetric(gaugeFunc("tested_hashes_total", "Number of hash values tested against the chain so far", func() float64 {
		return float64(src.Status().TestedHashes)
	}))
	RegisterMetric(gaugeFunc("coverage_fraction", "Estimated fraction of the hash space covered by the chain so far", func() float64 {
		return src.Status().Coverage
	}))
	RegisterMetric(gaugeFunc("query_rate", "Current queries per second", func() float64 {
		return src.Status().QueryRate
	}))
	RegisterMetric(gaugeFunc("predicted_zone_size", "Predicted total zone size, or NaN if no prediction is available yet", func() float64 {
		st := src.Status()
		if !st.HasPredicton {
			return math.NaN()
		}

		return st.Prediction
	}))
}

func gaugeFunc(name, help string, fn func() float64) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn)
}

// IsEnabled reports whether the metrics HTTP endpoint was started.
func IsEnabled() bool {
	return enabled
}
