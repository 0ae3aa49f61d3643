// Package observability provides an OpenTelemetry-based metrics extension
// for Timelock. The MetricsExtension implements lifecycle hooks to record
// system-wide counters for submissions, bids, executions, cancellations,
// and delay changes, plus the value that moved with each transition.
//
// For per-operation latency metrics, see middleware.Metrics().
package observability
