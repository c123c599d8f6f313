package allocation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	allocationRuns    *prometheus.CounterVec
	allocationLatency prometheus.Histogram
	clientsPlaced     *prometheus.CounterVec
	clientsRejected   *prometheus.CounterVec
	reportPublishFail prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_runs_total",
			Help: "Number of allocation runs by outcome",
		},
		[]string{"outcome"},
	)
	lat := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allocation_run_duration_seconds",
			Help:    "Time spent inside the allocation strategy",
			Buckets: prometheus.DefBuckets,
		},
	)
	placed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clients_placed_total",
			Help: "Number of clients loaded into a vehicle",
		},
		[]string{"tier"},
	)
	rejected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clients_rejected_total",
			Help: "Number of clients left without a vehicle",
		},
		[]string{"tier"},
	)
	pub := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "allocation_report_publish_failure_total",
			Help: "Number of allocation reports that could not be published",
		},
	)
	return runs, lat, placed, rejected, pub
}

func init() {
	allocationRuns, allocationLatency, clientsPlaced, clientsRejected, reportPublishFail = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers allocation metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(allocationRuns, allocationLatency, clientsPlaced, clientsRejected, reportPublishFail)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	allocationRuns, allocationLatency, clientsPlaced, clientsRejected, reportPublishFail = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

func tier(vip bool) string {
	if vip {
		return "vip"
	}
	return "regular"
}

// observe updates the package collectors from a finished report.
func observe(rep Report) {
	outcome := "completed"
	if rep.Empty() {
		outcome = "skipped"
	}
	allocationRuns.WithLabelValues(outcome).Inc()
	allocationLatency.Observe(rep.Duration.Seconds())
	for _, a := range rep.Distributed {
		clientsPlaced.WithLabelValues(tier(a.VIP)).Inc()
	}
	for _, r := range rep.NotDistributed {
		clientsRejected.WithLabelValues(tier(r.VIP)).Inc()
	}
}
