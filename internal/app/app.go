package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Additional-Code/ordergraph/internal/cache"
	"github.com/Additional-Code/ordergraph/internal/config"
	"github.com/Additional-Code/ordergraph/internal/database"
	"github.com/Additional-Code/ordergraph/internal/logger"
	"github.com/Additional-Code/ordergraph/internal/messaging"
	"github.com/Additional-Code/ordergraph/internal/observability"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
	repositoryorder "github.com/Additional-Code/ordergraph/internal/repository/order"
	grpcserver "github.com/Additional-Code/ordergraph/internal/server/grpc"
	httpserver "github.com/Additional-Code/ordergraph/internal/server/http"
	serviceorder "github.com/Additional-Code/ordergraph/internal/service/order"
	transportgrpc "github.com/Additional-Code/ordergraph/internal/transport/grpc"
	transporthttp "github.com/Additional-Code/ordergraph/internal/transport/http"
	"github.com/Additional-Code/ordergraph/internal/worker"
	workerorder "github.com/Additional-Code/ordergraph/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	reconcile.Module,
	repositoryorder.Module,
	serviceorder.Module,
	fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	}),
)

var (
	httpServer = fx.Options(httpserver.Module, transporthttp.Module)
	grpcServer = fx.Options(grpcserver.Module, transportgrpc.Module)
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpServer,
)

// GRPC wires the gRPC transport on top of the core modules.
var GRPC = fx.Options(
	Core,
	grpcServer,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring: HTTP and gRPC side by side.
var Module = fx.Options(
	Core,
	httpServer,
	grpcServer,
)
