package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rzbill/interticle/pkg/log"
	"github.com/rzbill/interticle/pkg/snowflake"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// OriginID identifies this server inside minted ids (origin layout).
	OriginID uint16 `json:"originId" yaml:"originId"`
	// Layout is origin (41/10/12) or datacenter (41/5/5/12).
	Layout       string `json:"layout" yaml:"layout"`
	DatacenterID uint8  `json:"datacenterId" yaml:"datacenterId"`
	WorkerID     uint8  `json:"workerId" yaml:"workerId"`
	// EpochMs is the reference instant in Unix ms. Every server exchanging
	// ids must use the same value.
	EpochMs int64 `json:"epochMs" yaml:"epochMs"`

	HTTPAddr string `json:"httpAddr" yaml:"httpAddr"`
	GRPCAddr string `json:"grpcAddr" yaml:"grpcAddr"`

	DataDir         string `json:"dataDir" yaml:"dataDir"`
	Fsync           string `json:"fsync" yaml:"fsync"`
	FsyncIntervalMs int    `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`

	// ListLimit caps the page size of article listings.
	ListLimit int `json:"listLimit" yaml:"listLimit"`

	Log log.Config `json:"log" yaml:"log"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Layout:          snowflake.LayoutOrigin.String(),
		EpochMs:         snowflake.Epoch,
		HTTPAddr:        ":8080",
		GRPCAddr:        ":50051",
		Fsync:           "always",
		FsyncIntervalMs: 5,
		ListLimit:       100,
		Log:             log.Config{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension) on top of
// the defaults. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks the id layout fields and limits.
func (c Config) Validate() error {
	layout, err := snowflake.ParseLayout(c.Layout)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch layout {
	case snowflake.LayoutOrigin:
		if uint64(c.OriginID) > snowflake.OriginField.Max() {
			return fmt.Errorf("config: originId %d exceeds %d", c.OriginID, snowflake.OriginField.Max())
		}
	case snowflake.LayoutDatacenter:
		if _, err := snowflake.DatacenterOrigin(c.DatacenterID, c.WorkerID); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.EpochMs <= 0 {
		return fmt.Errorf("config: epochMs must be positive")
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("config: listLimit must be positive")
	}
	switch c.Fsync {
	case "always", "interval", "never":
	default:
		return fmt.Errorf("config: fsync must be always|interval|never, got %q", c.Fsync)
	}
	return nil
}

// NewGenerator builds the id generator described by c.
func (c Config) NewGenerator(opts ...snowflake.Option) (*snowflake.Generator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts = append([]snowflake.Option{snowflake.WithEpoch(c.EpochMs)}, opts...)
	layout, _ := snowflake.ParseLayout(c.Layout)
	if layout == snowflake.LayoutDatacenter {
		return snowflake.NewDatacenterGenerator(c.DatacenterID, c.WorkerID, opts...)
	}
	return snowflake.NewGenerator(c.OriginID, opts...)
}
