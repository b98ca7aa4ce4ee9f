package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/rzbill/interticle/internal/config"
	"github.com/rzbill/interticle/internal/runtime"
	grpcserver "github.com/rzbill/interticle/internal/server/grpc"
	httpserver "github.com/rzbill/interticle/internal/server/http"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
	logpkg "github.com/rzbill/interticle/pkg/log"
)

type Options struct {
	Config cfgpkg.Config
	// Logger overrides the logger built from Config.Log.
	Logger logpkg.Logger
}

// buildLogger applies the log config, falling back to info/text on bad input.
func buildLogger(cfg cfgpkg.Config) logpkg.Logger {
	lc := cfg.Log
	l, err := logpkg.ApplyConfig(&lc)
	if err == nil {
		return l
	}
	lvl := logpkg.InfoLevel
	if parsed, e := logpkg.ParseLevel(lc.Level); e == nil {
		lvl = parsed
	}
	return logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
}

// Run starts gRPC and HTTP servers and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	if cfg.DataDir == "" {
		cfg.DataDir = cfgpkg.DefaultDataDir()
	}
	procLogger := opts.Logger
	if procLogger == nil {
		procLogger = buildLogger(cfg)
	}
	// Pebble and grpc write through the stdlib logger.
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: procLogger})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting interticle server",
		logpkg.Str("grpc", cfg.GRPCAddr),
		logpkg.Str("http", cfg.HTTPAddr),
		logpkg.Str("layout", cfg.Layout),
		logpkg.Int64("epoch_ms", cfg.EpochMs),
		logpkg.Str("fsync", cfg.Fsync),
	)

	// One service shared by both transports so writes serialize on one lock.
	svc := articlesvc.NewWithLogger(rt, procLogger)
	gsrv := grpcserver.NewWithService(rt, svc, procLogger)
	hsrv := httpserver.NewWithService(rt, svc, procLogger)

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)
	fail := func(name string, err error) {
		procLogger.Error(name+" server error", logpkg.Err(err))
		errOnce.Do(func() { runErr = err })
		stop()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gsrv.ListenAndServe(sctx, cfg.GRPCAddr); err != nil && sctx.Err() == nil {
			fail("grpc", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, cfg.HTTPAddr); err != nil && sctx.Err() == nil {
			fail("http", err)
		}
	}()

	<-sctx.Done()
	// Stop servers before the deferred runtime close.
	gsrv.Close()
	hsrv.Close()
	wg.Wait()
	procLogger.Info("interticle server stopped")
	return runErr
}
