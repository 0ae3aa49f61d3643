package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/ext"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// meterName is the instrumentation scope name for timelock metrics.
const meterName = "github.com/xraph/timelock/observability"

// Compile-time interface checks.
var (
	_ ext.Extension    = (*MetricsExtension)(nil)
	_ ext.DelayUpdated = (*MetricsExtension)(nil)
	_ ext.JobSubmitted = (*MetricsExtension)(nil)
	_ ext.BidPlaced    = (*MetricsExtension)(nil)
	_ ext.JobExecuted  = (*MetricsExtension)(nil)
	_ ext.JobCancelled = (*MetricsExtension)(nil)
)

// MetricsExtension records lifecycle counters via OpenTelemetry.
// Register it as an engine extension to automatically track submission,
// bid, execution, and cancellation rates plus the escrow value that moved.
type MetricsExtension struct {
	delayUpdates  metric.Int64Counter
	jobsSubmitted metric.Int64Counter
	bidsPlaced    metric.Int64Counter
	jobsExecuted  metric.Int64Counter
	jobsCancelled metric.Int64Counter
	valueMoved    metric.Int64Counter
}

// NewMetricsExtension creates a MetricsExtension using the global OTel
// MeterProvider. If none is configured, noop instruments are used and the
// extension becomes a pass-through.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the provided
// meter. This variant allows injecting a specific MeterProvider for testing.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	// On error the OTel API returns noop instruments, so creation errors
	// are deliberately ignored.
	delayUpdates, _ := meter.Int64Counter("timelock.delay.updates",
		metric.WithDescription("Total delay configuration changes"))
	jobsSubmitted, _ := meter.Int64Counter("timelock.jobs.submitted",
		metric.WithDescription("Total jobs opened"))
	bidsPlaced, _ := meter.Int64Counter("timelock.bids.placed",
		metric.WithDescription("Total accepted bids"))
	jobsExecuted, _ := meter.Int64Counter("timelock.jobs.executed",
		metric.WithDescription("Total executed jobs"))
	jobsCancelled, _ := meter.Int64Counter("timelock.jobs.cancelled",
		metric.WithDescription("Total cancelled auctions"))
	valueMoved, _ := meter.Int64Counter("timelock.escrow.value_moved",
		metric.WithDescription("Escrowed value committed or settled, by transition"),
		metric.WithUnit("{unit}"))

	return &MetricsExtension{
		delayUpdates:  delayUpdates,
		jobsSubmitted: jobsSubmitted,
		bidsPlaced:    bidsPlaced,
		jobsExecuted:  jobsExecuted,
		jobsCancelled: jobsCancelled,
		valueMoved:    valueMoved,
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnDelayUpdated implements ext.DelayUpdated.
func (m *MetricsExtension) OnDelayUpdated(ctx context.Context, _, _ time.Duration) error {
	m.delayUpdates.Add(ctx, 1)
	return nil
}

// OnJobSubmitted implements ext.JobSubmitted.
func (m *MetricsExtension) OnJobSubmitted(ctx context.Context, r *job.Record) error {
	m.jobsSubmitted.Add(ctx, 1, kindAttr(r.Kind))
	m.valueMoved.Add(ctx, int64(r.Held()), transitionAttr("submitted", r.Kind))
	return nil
}

// OnBidPlaced implements ext.BidPlaced.
func (m *MetricsExtension) OnBidPlaced(ctx context.Context, r *job.Record, _ id.AccountID, _ timelock.Amount) error {
	m.bidsPlaced.Add(ctx, 1)
	m.valueMoved.Add(ctx, int64(r.Collateral()), transitionAttr("bid", r.Kind))
	return nil
}

// OnJobExecuted implements ext.JobExecuted.
func (m *MetricsExtension) OnJobExecuted(ctx context.Context, r *job.Record, _ []byte) error {
	m.jobsExecuted.Add(ctx, 1, kindAttr(r.Kind))
	m.valueMoved.Add(ctx, int64(r.Held()), transitionAttr("executed", r.Kind))
	return nil
}

// OnJobCancelled implements ext.JobCancelled.
func (m *MetricsExtension) OnJobCancelled(ctx context.Context, r *job.Record) error {
	m.jobsCancelled.Add(ctx, 1)
	m.valueMoved.Add(ctx, int64(r.Held()), transitionAttr("cancelled", r.Kind))
	return nil
}

func kindAttr(k job.Kind) metric.AddOption {
	return metric.WithAttributes(attribute.String("kind", string(k)))
}

func transitionAttr(transition string, k job.Kind) metric.AddOption {
	return metric.WithAttributes(
		attribute.String("transition", transition),
		attribute.String("kind", string(k)),
	)
}
