package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	clientcmd "github.com/rzbill/interticle/internal/cmd/client"
	serverrun "github.com/rzbill/interticle/internal/cmd/server"
	cfgpkg "github.com/rzbill/interticle/internal/config"
	logpkg "github.com/rzbill/interticle/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newEnv returns a viper instance reading INTERTICLE_* variables, with
// dashes in flag names mapped to underscores.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("INTERTICLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCommand() *cobra.Command {
	env := newEnv()

	rootCmd := &cobra.Command{
		Use:           "interticle",
		Short:         "interticle server and client CLI",
		Long:          "interticle mints time-ordered 64-bit ids and shares articles between servers that agree on an epoch.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("api-url", "http://127.0.0.1:8080", "HTTP API base URL for client commands (env INTERTICLE_API_URL)")
	rootCmd.PersistentFlags().String("grpc-target", "127.0.0.1:50051", "gRPC target for client commands (env INTERTICLE_GRPC_TARGET)")
	_ = env.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = env.BindPFlag("grpc-target", rootCmd.PersistentFlags().Lookup("grpc-target"))

	rootCmd.AddCommand(newServerCommand())
	clientcmd.AddCommands(rootCmd, clientcmd.Endpoints{
		HTTPURL:    func() string { return env.GetString("api-url") },
		GRPCTarget: func() string { return env.GetString("grpc-target") },
	})
	return rootCmd
}

func newServerCommand() *cobra.Command {
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start interticle server (gRPC and HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{Config: cfg}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	f := serverStartCmd.Flags()
	f.String("config", "", "Config file (.json, .yaml or .yml)")
	f.String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	f.String("grpc", ":50051", "gRPC listen address")
	f.String("http", ":8080", "HTTP listen address")
	f.String("layout", "origin", "Id layout: origin (41/10/12) or datacenter (41/5/5/12)")
	f.Uint16("origin-id", 0, "Origin id (origin layout, 0-1023)")
	f.Uint8("datacenter-id", 0, "Datacenter id (datacenter layout, 0-31)")
	f.Uint8("worker-id", 0, "Worker id (datacenter layout, 0-31)")
	f.Int64("epoch-ms", cfgpkg.Default().EpochMs, "Epoch in Unix ms; must match every peer server")
	f.String("fsync", "always", "Fsync mode: always|interval|never")
	f.Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	f.Int("list-limit", 100, "Maximum page size for article listings")
	f.String("log-level", "", "Log level: debug|info|warn|error")
	f.String("log-format", "", "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	return serverCmd
}

// resolveConfig layers defaults, the config file, then INTERTICLE_* env and
// explicitly set flags through viper. Flags win over env.
func resolveConfig(flags *pflag.FlagSet) (cfgpkg.Config, error) {
	v := newEnv()
	if err := v.BindPFlags(flags); err != nil {
		return cfgpkg.Config{}, err
	}
	cfg, err := cfgpkg.Load(v.GetString("config"))
	if err != nil {
		return cfgpkg.Config{}, err
	}

	str := func(name string, dst *string) {
		if v.IsSet(name) {
			*dst = v.GetString(name)
		}
	}
	str("data-dir", &cfg.DataDir)
	str("grpc", &cfg.GRPCAddr)
	str("http", &cfg.HTTPAddr)
	str("layout", &cfg.Layout)
	str("fsync", &cfg.Fsync)
	str("log-level", &cfg.Log.Level)
	str("log-format", &cfg.Log.Format)

	num := func(name string, bits int, signed bool, apply func(uint64, int64)) error {
		if !v.IsSet(name) {
			return nil
		}
		s := v.GetString(name)
		if signed {
			n, err := strconv.ParseInt(s, 10, bits)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, s, err)
			}
			apply(0, n)
			return nil
		}
		n, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, s, err)
		}
		apply(n, 0)
		return nil
	}
	for _, err := range []error{
		num("origin-id", 16, false, func(u uint64, _ int64) { cfg.OriginID = uint16(u) }),
		num("datacenter-id", 8, false, func(u uint64, _ int64) { cfg.DatacenterID = uint8(u) }),
		num("worker-id", 8, false, func(u uint64, _ int64) { cfg.WorkerID = uint8(u) }),
		num("epoch-ms", 64, true, func(_ uint64, n int64) { cfg.EpochMs = n }),
		num("fsync-interval-ms", 32, true, func(_ uint64, n int64) { cfg.FsyncIntervalMs = int(n) }),
		num("list-limit", 32, true, func(_ uint64, n int64) { cfg.ListLimit = int(n) }),
	} {
		if err != nil {
			return cfgpkg.Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfgpkg.Config{}, err
	}
	if _, err := logpkg.ParseLevel(cfg.Log.Level); err != nil {
		return cfgpkg.Config{}, err
	}
	return cfg, nil
}
