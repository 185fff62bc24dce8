package order

import (
	"context"

	"google.golang.org/grpc"

	"github.com/Additional-Code/ordergraph/internal/dto"
	"github.com/Additional-Code/ordergraph/internal/model"
	service "github.com/Additional-Code/ordergraph/internal/service/order"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "ordergraph.v1.OrderService"

// GetRequest selects one order graph.
type GetRequest struct {
	ID string `json:"id"`
}

// CreateRequest carries a new order graph.
type CreateRequest struct {
	Order *model.CustomerOrder `json:"order"`
}

// PatchRequest carries an incoming snapshot for an existing order.
type PatchRequest struct {
	ID    string               `json:"id"`
	Order *model.CustomerOrder `json:"order"`
}

// DeleteRequest selects the order graph to remove.
type DeleteRequest struct {
	ID string `json:"id"`
}

// DeleteResponse is empty on success.
type DeleteResponse struct{}

// OrderServer is the server side of ServiceName.
type OrderServer interface {
	Get(ctx context.Context, req *GetRequest) (*model.CustomerOrder, error)
	Create(ctx context.Context, req *CreateRequest) (*model.CustomerOrder, error)
	Patch(ctx context.Context, req *PatchRequest) (*dto.PatchOrderResponse, error)
	Delete(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error)
}

// Service is the part of the order service exposed over gRPC.
type Service interface {
	Get(ctx context.Context, id string) (*model.CustomerOrder, error)
	Create(ctx context.Context, order *model.CustomerOrder) (*model.CustomerOrder, error)
	Patch(ctx context.Context, id string, incoming *model.CustomerOrder) (service.PatchResult, error)
	Delete(ctx context.Context, id string) error
}

// Server adapts Service to OrderServer.
type Server struct {
	svc Service
}

var _ OrderServer = (*Server)(nil)

// NewServer wraps svc.
func NewServer(svc Service) *Server {
	return &Server{svc: svc}
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv OrderServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Get returns the order graph named by req.ID.
func (s *Server) Get(ctx context.Context, req *GetRequest) (*model.CustomerOrder, error) {
	return s.svc.Get(ctx, req.ID)
}

// Create stores req.Order as a new order graph.
func (s *Server) Create(ctx context.Context, req *CreateRequest) (*model.CustomerOrder, error) {
	return s.svc.Create(ctx, req.Order)
}

// Patch reconciles req.Order onto the stored graph of req.ID and reports
// the per-collection changes.
func (s *Server) Patch(ctx context.Context, req *PatchRequest) (*dto.PatchOrderResponse, error) {
	res, err := s.svc.Patch(ctx, req.ID, req.Order)
	if err != nil {
		return nil, err
	}
	return &dto.PatchOrderResponse{
		Order:    res.Order,
		Changes:  dto.Summarize(res.Stats),
		Dangling: res.Dangling,
	}, nil
}

// Delete removes the order graph named by req.ID.
func (s *Server) Delete(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	if err := s.svc.Delete(ctx, req.ID); err != nil {
		return nil, err
	}
	return &DeleteResponse{}, nil
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: unary("Get", func(srv OrderServer, ctx context.Context, req *GetRequest) (any, error) {
			return srv.Get(ctx, req)
		})},
		{MethodName: "Create", Handler: unary("Create", func(srv OrderServer, ctx context.Context, req *CreateRequest) (any, error) {
			return srv.Create(ctx, req)
		})},
		{MethodName: "Patch", Handler: unary("Patch", func(srv OrderServer, ctx context.Context, req *PatchRequest) (any, error) {
			return srv.Patch(ctx, req)
		})},
		{MethodName: "Delete", Handler: unary("Delete", func(srv OrderServer, ctx context.Context, req *DeleteRequest) (any, error) {
			return srv.Delete(ctx, req)
		})},
	},
}

// unary builds a grpc method handler that decodes a *Req and runs call
// through the server's interceptor chain.
func unary[Req any](method string, call func(OrderServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OrderServer), ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(OrderServer), ctx, req.(*Req))
		})
	}
}
