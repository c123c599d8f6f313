// Package metrics defines the contracts used to record allocation runs.
// Sinks such as the Prometheus and InfluxDB implementations in infra/metrics
// register themselves with the factory registry and are combined with
// NewMultiSink when several are configured.
package metrics
