package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
)

func TestModule_ProvidesReconciler(t *testing.T) {
	var (
		r       *reconcile.Reconciler
		metrics *reconcile.Metrics
	)
	keys := &reconcile.Keys{LineItem: func(l *entity.LineItem) string { return l.Sku }}
	app := fxtest.New(t,
		fx.Supply(zaptest.NewLogger(t), keys),
		fx.Provide(func() metric.MeterProvider { return sdkmetric.NewMeterProvider() }),
		reconcile.Module,
		fx.Populate(&r, &metrics),
	)
	app.RequireStart().RequireStop()

	require.NotNil(t, r)
	assert.NotNil(t, metrics)

	current := &entity.Order{Items: []*entity.LineItem{{ID: "li-1", Sku: "SKU-1"}}}
	current.MarkLoaded()
	res, err := r.Run(current, &model.CustomerOrder{
		Items: lines(&model.LineItem{ID: "other", Sku: "SKU-1", ProductID: "p"}),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats[reconcile.Items].Updated, "supplied keys are used")
}
