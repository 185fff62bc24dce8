package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Additional-Code/ordergraph/internal/reconcile"
	"github.com/Additional-Code/ordergraph/pkg/collection"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			return sum.DataPoints
		}
	}
	return nil
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := reconcile.NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.Record(context.Background(), reconcile.Stats{
		reconcile.Items:     collection.Stats{Added: 2, Removed: 1},
		reconcile.Discounts: collection.Stats{Updated: 3},
	}, 1)

	points := collect(t, reader, "ordergraph.reconcile.children")
	require.Len(t, points, 3)
	byKey := map[string]int64{}
	for _, p := range points {
		c, _ := p.Attributes.Value(attribute.Key("collection"))
		o, _ := p.Attributes.Value(attribute.Key("outcome"))
		byKey[c.AsString()+"/"+o.AsString()] = p.Value
	}
	assert.Equal(t, map[string]int64{
		"items/added":       2,
		"items/removed":     1,
		"discounts/updated": 3,
	}, byKey)

	dangling := collect(t, reader, "ordergraph.reconcile.dangling")
	require.Len(t, dangling, 1)
	assert.Equal(t, int64(1), dangling[0].Value)
}

func TestNewMetrics_NilMeter(t *testing.T) {
	m, err := reconcile.NewMetrics(nil)
	require.ErrorIs(t, err, reconcile.ErrMeterNil)
	assert.Nil(t, m)
}

func TestMetrics_NilAndNoop(t *testing.T) {
	var m *reconcile.Metrics
	m.Record(context.Background(), reconcile.Stats{reconcile.Items: {Added: 1}}, 2)
	m.ObserveGraph(context.Background(), 3)

	noopMetrics, err := reconcile.NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	noopMetrics.Record(context.Background(), reconcile.Stats{reconcile.Items: {Added: 1}}, 0)
}
