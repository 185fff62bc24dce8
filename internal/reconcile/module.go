package reconcile

import (
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/ordergraph/internal/entity"
)

// Module provides the reconciler, its metrics and the stock entity factory to Fx.
var Module = fx.Options(
	fx.Provide(
		func() entity.Factory { return entity.DefaultFactory{} },
		newFromFx,
		newMetricsFromFx,
	),
)

type params struct {
	fx.In

	Factory entity.Factory
	Logger  *zap.Logger
	Keys    *Keys `optional:"true"`
}

func newFromFx(p params) *Reconciler {
	opts := []Option{WithFactory(p.Factory), WithLogger(p.Logger.Named("reconcile"))}
	if p.Keys != nil {
		opts = append(opts, WithKeys(*p.Keys))
	}
	return New(opts...)
}

type metricsParams struct {
	fx.In

	Provider metric.MeterProvider `optional:"true"`
}

func newMetricsFromFx(p metricsParams) (*Metrics, error) {
	if p.Provider == nil {
		return NewGlobalMetrics()
	}
	return NewMetrics(p.Provider.Meter(meterName))
}
