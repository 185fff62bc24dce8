package grpc

import (
	"go.uber.org/fx"

	ordertransport "github.com/Additional-Code/ordergraph/internal/transport/grpc/order"
)

// Module aggregates all gRPC transport services.
var Module = fx.Options(
	ordertransport.Module,
)
