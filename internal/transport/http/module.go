package http

import (
	"go.uber.org/fx"

	ordertransport "github.com/Additional-Code/ordergraph/internal/transport/http/order"
)

// Module aggregates the HTTP transports. Routes are mounted on the Echo
// instance provided by the HTTP server package.
var Module = fx.Module("transport.http",
	ordertransport.Module,
)
