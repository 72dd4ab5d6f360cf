// Package metric provides Prometheus metrics for LiftLog.
//
// It exposes request rates, latencies and authentication counters on
// the /metrics endpoint.
package metric
