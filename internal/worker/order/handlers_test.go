package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Additional-Code/ordergraph/internal/config"
	"github.com/Additional-Code/ordergraph/internal/messaging"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
	ordersvc "github.com/Additional-Code/ordergraph/internal/service/order"
	workerorder "github.com/Additional-Code/ordergraph/internal/worker/order"
	"github.com/Additional-Code/ordergraph/pkg/collection"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
	"github.com/Additional-Code/ordergraph/pkg/optional"
)

type patcherFunc func(ctx context.Context, id string, incoming *model.CustomerOrder) (ordersvc.PatchResult, error)

func (f patcherFunc) Patch(ctx context.Context, id string, incoming *model.CustomerOrder) (ordersvc.PatchResult, error) {
	return f(ctx, id, incoming)
}

func testConfig() config.Config {
	return config.Config{
		Messaging: config.Messaging{Kafka: config.Kafka{Topic: "orders"}},
		Orders:    config.Orders{EventTopic: "orders"},
	}
}

func patchMessage(t *testing.T, cmd ordersvc.PatchCommand) messaging.Message {
	t.Helper()
	raw, err := json.Marshal(cmd)
	require.NoError(t, err)
	return messaging.Message{Topic: "orders", Value: raw, Headers: map[string]string{"type": ordersvc.CommandOrderPatch}}
}

func TestPatchHandler_AppliesCommand(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var gotID string
	var gotOrder *model.CustomerOrder
	reg := workerorder.NewPatchHandler(patcherFunc(func(_ context.Context, id string, in *model.CustomerOrder) (ordersvc.PatchResult, error) {
		gotID, gotOrder = id, in
		return ordersvc.PatchResult{Stats: reconcile.Stats{reconcile.Items: collection.Stats{Added: 1}}}, nil
	}), zap.New(core), testConfig())

	assert.Equal(t, "orders", reg.Topic)
	assert.Equal(t, ordersvc.CommandOrderPatch, reg.Type)

	msg := patchMessage(t, ordersvc.PatchCommand{
		Type:    ordersvc.CommandOrderPatch,
		OrderID: "order-1",
		Order:   &model.CustomerOrder{Items: optional.Some([]*model.LineItem{})},
	})
	require.NoError(t, reg.Handler(context.Background(), msg))

	assert.Equal(t, "order-1", gotID)
	require.NotNil(t, gotOrder)
	assert.True(t, gotOrder.Items.Present(), "empty collection survives the wire")
	assert.False(t, gotOrder.Shipments.Present())

	entries := logs.FilterMessage("order patch applied").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["added"])
}

func TestPatchHandler_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "not found is acknowledged", err: errorbank.NotFound("order not found")},
		{name: "conflict is acknowledged", err: errorbank.Conflict("order conflicts with stored data")},
		{name: "invalid payload is acknowledged", err: errorbank.Unprocessable("order payload is invalid")},
		{name: "store failure is retried", err: errorbank.Internal("failed to update order"), wantErr: true},
		{name: "unknown failure is retried", err: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := workerorder.NewPatchHandler(patcherFunc(func(context.Context, string, *model.CustomerOrder) (ordersvc.PatchResult, error) {
				return ordersvc.PatchResult{}, tt.err
			}), zap.NewNop(), testConfig())

			err := reg.Handler(context.Background(), patchMessage(t, ordersvc.PatchCommand{OrderID: "order-1"}))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatchHandler_UndecodableIsDropped(t *testing.T) {
	called := false
	reg := workerorder.NewPatchHandler(patcherFunc(func(context.Context, string, *model.CustomerOrder) (ordersvc.PatchResult, error) {
		called = true
		return ordersvc.PatchResult{}, nil
	}), zap.NewNop(), testConfig())

	assert.NoError(t, reg.Handler(context.Background(), messaging.Message{Value: []byte("{")}))
	assert.False(t, called)
}

func TestEventLogHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reg := workerorder.NewEventLogHandler(zap.New(core), testConfig())
	assert.Empty(t, reg.Type)

	raw, err := json.Marshal(ordersvc.Event{Type: ordersvc.EventOrderUpdated, OrderID: "order-1", Dangling: 2})
	require.NoError(t, err)
	require.NoError(t, reg.Handler(context.Background(), messaging.Message{Topic: "orders", Value: raw}))

	entries := logs.FilterMessage("order event processed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, ordersvc.EventOrderUpdated, fields["type"])
	assert.Equal(t, int64(2), fields["dangling"])
}
