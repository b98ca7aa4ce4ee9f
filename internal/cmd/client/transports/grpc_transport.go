// Package transports provides pluggable transport implementations for the CLI.
package transports

import (
	"context"

	snowflakev1 "github.com/rzbill/interticle/internal/api/snowflakev1"
	"github.com/rzbill/interticle/pkg/snowflake"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GrpcTransport implements IDTransport over gRPC.
type GrpcTransport struct {
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewGrpcTransport constructs a new GrpcTransport using the provided dialer.
func NewGrpcTransport(dial func(ctx context.Context) (*grpc.ClientConn, error)) *GrpcTransport {
	return &GrpcTransport{dial: dial}
}

func (t *GrpcTransport) withClient(ctx context.Context, fn func(cli snowflakev1.SnowflakeClient) error) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(snowflakev1.NewSnowflakeClient(conn))
}

// NextID mints an id via gRPC.
func (t *GrpcTransport) NextID(ctx context.Context) (snowflake.ID, error) {
	var id snowflake.ID
	err := t.withClient(ctx, func(cli snowflakev1.SnowflakeClient) error {
		res, err := cli.NextId(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		id, err = snowflake.Parse(res.GetValue())
		return err
	})
	return id, err
}

// Decode asks the server to split id into its fields.
func (t *GrpcTransport) Decode(ctx context.Context, id snowflake.ID) (map[string]any, error) {
	var out map[string]any
	err := t.withClient(ctx, func(cli snowflakev1.SnowflakeClient) error {
		res, err := cli.Decode(ctx, wrapperspb.String(id.String()))
		if err != nil {
			return err
		}
		out = res.AsMap()
		return nil
	})
	return out, err
}
