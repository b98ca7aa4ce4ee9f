package grpcserver

import (
	"context"
	"errors"

	snowflakev1 "github.com/rzbill/interticle/internal/api/snowflakev1"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
	"github.com/rzbill/interticle/pkg/snowflake"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type snowflakeSvc struct {
	snowflakev1.UnimplementedSnowflakeServer
	svc *articlesvc.Service
}

func (s *snowflakeSvc) NextId(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	id, err := s.svc.MintID(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(id.String()), nil
}

func (s *snowflakeSvc) Decode(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := snowflake.Parse(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	info := s.svc.Describe(id)
	fields := map[string]any{
		"id":          info.ID.String(),
		"layout":      info.Layout,
		"timestampMs": info.TimestampMs,
		"time":        info.Time.Format("2006-01-02T15:04:05.000Z07:00"),
		"originId":    int64(info.OriginID),
		"sequence":    int64(info.Sequence),
		"binary":      info.Binary,
	}
	if info.Layout == snowflake.LayoutDatacenter.String() {
		fields["datacenterId"] = int64(info.DatacenterID)
		fields["workerId"] = int64(info.WorkerID)
	}
	if info.Base58 != "" {
		fields["base58"] = info.Base58
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps service errors to gRPC status codes.
func toStatus(err error) error {
	return status.Error(statusCode(err), err.Error())
}

func statusCode(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, snowflake.ErrClockRegression), errors.Is(err, snowflake.ErrTimestampOutOfRange):
		return codes.Unavailable
	case errors.Is(err, articlesvc.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, articlesvc.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(err, snowflake.ErrInvalidArgument),
		errors.Is(err, snowflake.ErrRadixRange),
		errors.Is(err, articlesvc.ErrInvalidRecord),
		errors.Is(err, articlesvc.ErrInvalidFilter),
		errors.Is(err, articlesvc.ErrUnknownAuthor):
		return codes.InvalidArgument
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}
