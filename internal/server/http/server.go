package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rzbill/interticle/internal/runtime"
	"github.com/rzbill/interticle/internal/server/http/controllers"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
	logpkg "github.com/rzbill/interticle/pkg/log"
)

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	return NewWithService(rt, articlesvc.NewWithLogger(rt, logger), logger)
}

// NewWithService builds the server around an existing articles service so
// the HTTP and gRPC transports can share one.
func NewWithService(rt *runtime.Runtime, svc *articlesvc.Service, logger logpkg.Logger) *Server {
	logger = logger.WithComponent("http")
	router := mux.NewRouter()
	v1 := router.PathPrefix("/v1").Subrouter()
	controllers.NewControllerRegistry(rt, svc).RegisterAllRoutes(v1)
	router.Use(requestID, tracing, accessLog(logger))

	s := &Server{
		rt:     rt,
		logger: logger,
		srv: &http.Server{
			Handler:           cors(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	return s
}

// Handler returns the root handler (tests).
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
