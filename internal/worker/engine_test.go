package worker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Additional-Code/ordergraph/internal/messaging"
	"github.com/Additional-Code/ordergraph/internal/worker"
)

func TestMessageType(t *testing.T) {
	assert.Equal(t, "order.patch", worker.MessageType(messaging.Message{
		Headers: map[string]string{"type": "order.patch"},
		Value:   []byte(`{"type":"ignored"}`),
	}))
	assert.Equal(t, "order.updated", worker.MessageType(messaging.Message{Value: []byte(`{"type":"order.updated"}`)}))
	assert.Empty(t, worker.MessageType(messaging.Message{Value: []byte(`not json`)}))
}

func TestEngine_Dispatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var got []string
	record := func(name string) messaging.Handler {
		return func(context.Context, messaging.Message) error {
			got = append(got, name)
			return nil
		}
	}

	engine := worker.NewEngine(worker.Params{
		Logger: zap.New(core),
		Registrations: []worker.HandlerRegistration{
			{Topic: "orders", Type: "order.patch", Handler: record("patch")},
			{Topic: "orders", Handler: record("catch-all")},
			{Topic: "", Handler: record("ignored")},
			{Topic: "audit", Type: "order.created"},
		},
	})

	ctx := context.Background()
	require.NoError(t, engine.Dispatch(ctx, messaging.Message{Topic: "orders", Headers: map[string]string{"type": "order.patch"}}))
	require.NoError(t, engine.Dispatch(ctx, messaging.Message{Topic: "orders", Value: []byte(`{"type":"order.deleted"}`)}))
	require.NoError(t, engine.Dispatch(ctx, messaging.Message{Topic: "audit", Headers: map[string]string{"type": "order.created"}}))

	assert.Equal(t, []string{"patch", "catch-all"}, got)
	require.Equal(t, 1, logs.FilterMessage("no handler for message").Len())
}
