package reconcile

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Additional-Code/ordergraph/reconcile"

// GraphSizeMetric is the histogram of child rows per reconciled order.
const GraphSizeMetric = "ordergraph.reconcile.graph_size"

// ErrMeterNil is returned when metrics are built without a meter.
var ErrMeterNil = errors.New("reconcile: meter cannot be nil")

// Metrics records reconciliation outcomes.
type Metrics struct {
	children  metric.Int64Counter
	dangling  metric.Int64Counter
	graphSize metric.Int64Histogram
}

// NewMetrics registers the reconcile instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	children, err := meter.Int64Counter(
		"ordergraph.reconcile.children",
		metric.WithDescription("Child rows added, updated or removed by reconciliation"),
		metric.WithUnit("{rows}"),
	)
	if err != nil {
		return nil, err
	}
	dangling, err := meter.Int64Counter(
		"ordergraph.reconcile.dangling",
		metric.WithDescription("Shipment items left without a line item"),
		metric.WithUnit("{items}"),
	)
	if err != nil {
		return nil, err
	}
	graphSize, err := meter.Int64Histogram(
		GraphSizeMetric,
		metric.WithDescription("Child rows hanging off an order after reconciliation"),
		metric.WithUnit("{rows}"),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{children: children, dangling: dangling, graphSize: graphSize}, nil
}

// NewGlobalMetrics registers the instruments on the global meter provider.
func NewGlobalMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(meterName))
}

// Record adds one reconciliation to the counters. A nil receiver is a no-op.
func (m *Metrics) Record(ctx context.Context, stats Stats, dangling int) {
	if m == nil {
		return
	}
	for _, name := range stats.Names() {
		st := stats[name]
		m.add(ctx, name, "added", st.Added)
		m.add(ctx, name, "updated", st.Updated)
		m.add(ctx, name, "removed", st.Removed)
	}
	if dangling > 0 {
		m.dangling.Add(ctx, int64(dangling))
	}
}

// ObserveGraph records the size of a reconciled graph.
func (m *Metrics) ObserveGraph(ctx context.Context, children int) {
	if m == nil {
		return
	}
	m.graphSize.Record(ctx, int64(children))
}

func (m *Metrics) add(ctx context.Context, name, outcome string, n int) {
	if n == 0 {
		return
	}
	m.children.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("collection", name),
		attribute.String("outcome", outcome),
	))
}
