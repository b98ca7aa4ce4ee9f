// Package snowflakev1 declares the interticle.v1.Snowflake gRPC service.
//
// The service uses protobuf well-known types for its messages, so the
// descriptor is declared here directly instead of being generated:
//
//	service Snowflake {
//	  rpc NextId(google.protobuf.Empty) returns (google.protobuf.StringValue);
//	  rpc Decode(google.protobuf.StringValue) returns (google.protobuf.Struct);
//	}
package snowflakev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName                     = "interticle.v1.Snowflake"
	Snowflake_NextId_FullMethodName = "/interticle.v1.Snowflake/NextId"
	Snowflake_Decode_FullMethodName = "/interticle.v1.Snowflake/Decode"
)

// SnowflakeClient is the client API for the Snowflake service.
type SnowflakeClient interface {
	// NextId mints an id; the value is its decimal form.
	NextId(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	// Decode splits a decimal id into its fields.
	Decode(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type snowflakeClient struct {
	cc grpc.ClientConnInterface
}

func NewSnowflakeClient(cc grpc.ClientConnInterface) SnowflakeClient {
	return &snowflakeClient{cc}
}

func (c *snowflakeClient) NextId(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, Snowflake_NextId_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *snowflakeClient) Decode(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Snowflake_Decode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SnowflakeServer is the server API for the Snowflake service.
type SnowflakeServer interface {
	NextId(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Decode(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedSnowflakeServer can be embedded for forward compatibility.
type UnimplementedSnowflakeServer struct{}

func (UnimplementedSnowflakeServer) NextId(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method NextId not implemented")
}

func (UnimplementedSnowflakeServer) Decode(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Decode not implemented")
}

func RegisterSnowflakeServer(s grpc.ServiceRegistrar, srv SnowflakeServer) {
	s.RegisterService(&Snowflake_ServiceDesc, srv)
}

func _Snowflake_NextId_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnowflakeServer).NextId(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Snowflake_NextId_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SnowflakeServer).NextId(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Snowflake_Decode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnowflakeServer).Decode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Snowflake_Decode_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SnowflakeServer).Decode(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Snowflake_ServiceDesc is the grpc.ServiceDesc for the Snowflake service.
var Snowflake_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SnowflakeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NextId", Handler: _Snowflake_NextId_Handler},
		{MethodName: "Decode", Handler: _Snowflake_Decode_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "interticle/v1/snowflake.proto",
}
