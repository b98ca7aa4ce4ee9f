package grpcserver

import (
	"context"
	"net"
	"time"

	snowflakev1 "github.com/rzbill/interticle/internal/api/snowflakev1"
	"github.com/rzbill/interticle/internal/runtime"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
	logpkg "github.com/rzbill/interticle/pkg/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// healthInterval is how often the storage health is re-checked.
const healthInterval = 5 * time.Second

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	svc    *articlesvc.Service
	grpc   *grpc.Server
	health *health.Server
	lis    net.Listener
	logger logpkg.Logger
}

// New constructs a gRPC server and registers services.
func New(rt *runtime.Runtime, logger logpkg.Logger, opts ...grpc.ServerOption) *Server {
	return NewWithService(rt, articlesvc.NewWithLogger(rt, logger), logger, opts...)
}

// NewWithService constructs a gRPC server around an existing articles service.
func NewWithService(rt *runtime.Runtime, svc *articlesvc.Service, logger logpkg.Logger, opts ...grpc.ServerOption) *Server {
	logger = logger.WithComponent("grpc")
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logUnary(logger))}, opts...)
	s := &Server{
		rt:     rt,
		svc:    svc,
		grpc:   grpc.NewServer(opts...),
		health: health.NewServer(),
		logger: logger,
	}
	snowflakev1.RegisterSnowflakeServer(s.grpc, &snowflakeSvc{svc: svc})
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.refreshHealth(context.Background())
	return s
}

// refreshHealth mirrors the runtime health check into the health service.
func (s *Server) refreshHealth(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.rt.CheckHealth(ctx); err != nil {
		s.logger.Warn("health check failed", logpkg.Err(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(snowflakev1.ServiceName, st)
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("grpc listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()

	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpc.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.refreshHealth(ctx)
		}
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.health.Shutdown()
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

// logUnary logs each unary call with its status code.
func logUnary(logger logpkg.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []logpkg.Field{
			logpkg.Str("method", info.FullMethod),
			logpkg.Str("code", statusCode(err).String()),
			logpkg.Duration("dur", time.Since(start)),
		}
		if err != nil {
			logger.Warn("grpc call failed", append(fields, logpkg.Err(err))...)
		} else {
			logger.Debug("grpc call", fields...)
		}
		return resp, err
	}
}
