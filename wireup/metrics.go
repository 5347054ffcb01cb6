package wireup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	selectTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ucx_wireup",
		Name:      "select_total",
		Help:      "Total wireup.Select calls, by outcome.",
	}, []string{"outcome"})

	laneCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ucx_wireup",
		Name:      "lane_count",
		Help:      "Number of lanes placed per successful Select call.",
		Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16},
	})
)

// recordMetrics reports one Select outcome. cfg is a successful EpConfig
// (metrics on the error path are recorded by the caller via err's Kind,
// since Select returns before constructing an EpConfig on failure).
func recordMetrics(cfg *EpConfig, err error) {
	if err != nil {
		kind, ok := AsKind(err)
		if !ok {
			selectTotal.WithLabelValues("error").Inc()
			return
		}
		selectTotal.WithLabelValues(kind.String()).Inc()
		return
	}
	selectTotal.WithLabelValues("ok").Inc()
	laneCount.Observe(float64(cfg.NumLanes))
}
