package serverrun

import (
	"context"
	"net"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/interticle/internal/config"
	logpkg "github.com/rzbill/interticle/pkg/log"
)

func TestBuildLoggerFallback(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Log.Format = "xml"
	cfg.Log.Level = "debug"
	l := buildLogger(cfg)
	if l == nil {
		t.Fatal("expected logger")
	}
	if l.GetLevel() != logpkg.DebugLevel {
		t.Errorf("expected debug level, got %v", l.GetLevel())
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.Layout = "triangle"
	err := Run(context.Background(), Options{Config: cfg, Logger: logpkg.NewNopLogger()})
	if err == nil {
		t.Fatal("expected error for invalid layout")
	}
}

func TestRunReportsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.Fsync = "never"
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.HTTPAddr = busy.Addr().String()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Run(ctx, Options{Config: cfg, Logger: logpkg.NewNopLogger()}); err == nil {
		t.Fatal("expected listen error")
	}
}

// TestRunIntegration starts both servers on ephemeral ports and stops them
// via context cancellation.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.Fsync = "never"
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.HTTPAddr = "127.0.0.1:0"

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := Run(ctx, Options{Config: cfg, Logger: logpkg.NewNopLogger()}); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
