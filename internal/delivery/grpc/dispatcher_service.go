package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"pos_service/internal/dispatcher"
	"pos_service/internal/domain"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/sirupsen/logrus"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName  = "pos.v1.Dispatcher"
	invokeMethod = "/" + ServiceName + "/Invoke"
	pingMethod   = "/" + ServiceName + "/Ping"
	operationKey = "operation"
	argumentsKey = "args"
)

// DispatcherServer is the server side of pos.v1.Dispatcher. Messages are the
// well-known Struct and Empty types, so no generated code is involved.
type DispatcherServer interface {
	Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Ping(ctx context.Context, req *empty.Empty) (*empty.Empty, error)
}

var serviceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DispatcherServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Invoke", Handler: invokeHandler},
		{MethodName: "Ping", Handler: pingHandler},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "pos/v1/dispatcher.proto",
}

// RegisterDispatcherServer attaches srv to s.
func RegisterDispatcherServer(s gogrpc.ServiceRegistrar, srv DispatcherServer) {
	s.RegisterService(&serviceDesc, srv)
}

func invokeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor gogrpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).Invoke(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: invokeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServer).Invoke(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func pingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor gogrpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).Ping(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: pingMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServer).Ping(ctx, req.(*empty.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// DispatcherHandler serves pos.v1.Dispatcher on top of the operation
// dispatcher. A successful Invoke returns {ok, value}; a failed one returns a
// status error whose code follows the error kind.
type DispatcherHandler struct {
	dispatcher *dispatcher.Dispatcher
	log        *logrus.Logger
}

func NewDispatcherHandler(d *dispatcher.Dispatcher, logger *logrus.Logger) *DispatcherHandler {
	return &DispatcherHandler{
		dispatcher: d,
		log:        logger,
	}
}

func (h *DispatcherHandler) Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	operation := fields[operationKey].GetStringValue()
	if operation == "" {
		return nil, status.Error(codes.InvalidArgument, "operation is required")
	}
	h.log.Infof("gRPC Handler: Received Invoke request: Operation=%s", operation)

	var args interface{}
	if v, ok := fields[argumentsKey]; ok {
		args = v.AsInterface()
	}

	result := h.dispatcher.Dispatch(ctx, operation, args)
	if !result.OK {
		h.log.Warnf("gRPC Handler: Operation %s failed: %s", operation, result.Message)
		return nil, kindToGrpcStatus(result.ErrorKind, result.Message)
	}

	out, err := resultToStruct(result)
	if err != nil {
		h.log.Errorf("gRPC Handler: Failed to encode result of %s: %v", operation, err)
		return nil, status.Errorf(codes.Internal, "Failed to encode result: %v", err)
	}
	return out, nil
}

func (h *DispatcherHandler) Ping(_ context.Context, _ *empty.Empty) (*empty.Empty, error) {
	return &empty.Empty{}, nil
}

// resultToStruct goes through JSON so prices and dates take the same shape
// they have on the HTTP surface.
func resultToStruct(result dispatcher.Result) (*structpb.Struct, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func mapDomainErrorToGrpcStatus(err error) error {
	if err == nil {
		return nil
	}
	return kindToGrpcStatus(domain.KindOf(err), err.Error())
}

func kindToGrpcStatus(kind domain.ErrorKind, message string) error {
	switch kind {
	case domain.KindNotFound:
		return status.Error(codes.NotFound, message)
	case domain.KindInvalidRequest:
		return status.Error(codes.InvalidArgument, message)
	case domain.KindInsufficientStock:
		return status.Error(codes.FailedPrecondition, message)
	case domain.KindIOError:
		return status.Error(codes.Unavailable, message)
	default:
		return status.Errorf(codes.Internal, "Internal server error: %s", message)
	}
}

// DispatcherClient is a thin client for pos.v1.Dispatcher.
type DispatcherClient struct {
	conn gogrpc.ClientConnInterface
}

func NewDispatcherClient(conn gogrpc.ClientConnInterface) *DispatcherClient {
	return &DispatcherClient{conn: conn}
}

// Invoke runs operation remotely and returns the decoded value. args must be
// built from JSON-compatible Go values.
func (c *DispatcherClient) Invoke(ctx context.Context, operation string, args interface{}) (interface{}, error) {
	fields := map[string]interface{}{operationKey: operation}
	if args != nil {
		fields[argumentsKey] = args
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, invokeMethod, req, out); err != nil {
		return nil, err
	}
	return out.AsMap()["value"], nil
}

func (c *DispatcherClient) Ping(ctx context.Context) error {
	return c.conn.Invoke(ctx, pingMethod, &empty.Empty{}, new(empty.Empty))
}
