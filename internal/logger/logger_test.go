package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Additional-Code/ordergraph/internal/config"
	"github.com/Additional-Code/ordergraph/internal/logger"
)

func TestBuild_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "debug", want: zapcore.DebugLevel},
		{level: "WARN", want: zapcore.WarnLevel},
		{level: "loud", want: zapcore.InfoLevel},
		{level: "", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := logger.Build(config.Observability{LogLevel: tt.level, LogEncoding: "json"})
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}

func TestBuild_AddsServiceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l, err := logger.Build(
		config.Observability{ServiceName: "ordergraph", Environment: "test", LogEncoding: "console"},
		zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }),
	)
	require.NoError(t, err)

	l.Info("hello")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{"service": "ordergraph", "environment": "test"}, entries[0].ContextMap())
}

func TestNew_Lifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	l, err := logger.New(lc, config.Config{Observability: config.Observability{LogLevel: "info"}})
	require.NoError(t, err)
	require.NotNil(t, l)
	lc.RequireStart().RequireStop()
}
