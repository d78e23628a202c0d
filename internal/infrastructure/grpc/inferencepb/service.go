package inferencepb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/dynamicpb"
)

type PricePredictionServer interface {
	PredictPrice(ctx context.Context, req PriceRequest) (PriceResponse, error)
	GetModelInfo(ctx context.Context, req ModelInfoRequest) (ModelInfoResponse, error)
	HealthCheck(ctx context.Context, req HealthCheckRequest) (HealthCheckResponse, error)
}

func RegisterPricePredictionServer(s grpc.ServiceRegistrar, srv PricePredictionServer) {
	s.RegisterService(&PricePredictionServiceDesc, srv)
}

// unary adapts a typed handler to the grpc handler signature, decoding into a
// dynamic message of the given descriptor.
func unary[Req any, Resp interface{ Proto() *dynamicpb.Message }](
	fullMethod string,
	newIn func() *dynamicpb.Message,
	from func(*dynamicpb.Message) Req,
	call func(PricePredictionServer, context.Context, Req) (Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newIn()
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			out, err := call(srv.(PricePredictionServer), ctx, from(req.(*dynamicpb.Message)))
			if err != nil {
				return nil, err
			}
			return out.Proto(), nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}

var PricePredictionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricePredictionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PredictPrice",
			Handler: unary(PredictPriceMethod,
				func() *dynamicpb.Message { return dynamicpb.NewMessage(priceRequestDesc) },
				PriceRequestFrom,
				PricePredictionServer.PredictPrice),
		},
		{
			MethodName: "GetModelInfo",
			Handler: unary(GetModelInfoMethod,
				func() *dynamicpb.Message { return dynamicpb.NewMessage(modelInfoRequestDesc) },
				ModelInfoRequestFrom,
				PricePredictionServer.GetModelInfo),
		},
		{
			MethodName: "HealthCheck",
			Handler: unary(HealthCheckMethod,
				func() *dynamicpb.Message { return dynamicpb.NewMessage(healthCheckRequestDesc) },
				HealthCheckRequestFrom,
				PricePredictionServer.HealthCheck),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "prediction.proto",
}

type PricePredictionClient struct {
	cc grpc.ClientConnInterface
}

func NewPricePredictionClient(cc grpc.ClientConnInterface) *PricePredictionClient {
	return &PricePredictionClient{cc: cc}
}

func (c *PricePredictionClient) PredictPrice(ctx context.Context, req PriceRequest, opts ...grpc.CallOption) (PriceResponse, error) {
	out := dynamicpb.NewMessage(priceResponseDesc)
	if err := c.cc.Invoke(ctx, PredictPriceMethod, req.Proto(), out, opts...); err != nil {
		return PriceResponse{}, err
	}
	return PriceResponseFrom(out), nil
}

func (c *PricePredictionClient) GetModelInfo(ctx context.Context, req ModelInfoRequest, opts ...grpc.CallOption) (ModelInfoResponse, error) {
	out := dynamicpb.NewMessage(modelInfoResponseDesc)
	if err := c.cc.Invoke(ctx, GetModelInfoMethod, req.Proto(), out, opts...); err != nil {
		return ModelInfoResponse{}, err
	}
	return ModelInfoResponseFrom(out), nil
}

func (c *PricePredictionClient) HealthCheck(ctx context.Context, req HealthCheckRequest, opts ...grpc.CallOption) (HealthCheckResponse, error) {
	out := dynamicpb.NewMessage(healthCheckResponseDesc)
	if err := c.cc.Invoke(ctx, HealthCheckMethod, req.Proto(), out, opts...); err != nil {
		return HealthCheckResponse{}, err
	}
	return HealthCheckResponseFrom(out), nil
}
