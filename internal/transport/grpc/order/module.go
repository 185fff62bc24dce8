package order

import (
	"go.uber.org/fx"
	"google.golang.org/grpc"

	service "github.com/Additional-Code/ordergraph/internal/service/order"
)

// Module registers the order service on the gRPC server.
var Module = fx.Options(
	fx.Provide(func(svc *service.Service) *Server { return NewServer(svc) }),
	fx.Invoke(func(s *grpc.Server, srv *Server) {
		Register(s, srv)
	}),
)
