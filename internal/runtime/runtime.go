package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rzbill/interticle/internal/catalog"
	cfgpkg "github.com/rzbill/interticle/internal/config"
	pebblestore "github.com/rzbill/interticle/internal/storage/pebble"
	logpkg "github.com/rzbill/interticle/pkg/log"
	"github.com/rzbill/interticle/pkg/snowflake"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	// Logger defaults to a nop logger.
	Logger logpkg.Logger
	// Clock overrides the generator's wall clock (tests).
	Clock snowflake.Clock
}

// Runtime wires storage, the id generator, and config for a single server.
type Runtime struct {
	db      *pebblestore.DB
	catalog *catalog.Catalog
	gen     *snowflake.Locked
	config  cfgpkg.Config
	logger  logpkg.Logger
	stats   *Stats
}

// Open validates the config, opens storage, and builds the generator.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}

	genOpts := []snowflake.Option{snowflake.WithLogger(logger.WithComponent("snowflake"))}
	if opts.Clock != nil {
		genOpts = append(genOpts, snowflake.WithClock(opts.Clock))
	}
	g, err := cfg.NewGenerator(genOpts...)
	if err != nil {
		return nil, err
	}
	gen := snowflake.NewLocked(g)

	fsync, err := pebblestore.ParseFsyncMode(cfg.Fsync)
	if err != nil {
		return nil, err
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = cfgpkg.DefaultDataDir()
	}
	stats := &Stats{}
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       dataDir,
		Fsync:         fsync,
		FsyncInterval: time.Duration(cfg.FsyncIntervalMs) * time.Millisecond,
		Metrics:       stats,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", dataDir, err)
	}

	logger.Info("runtime opened",
		logpkg.Str("data_dir", dataDir),
		logpkg.Str("layout", gen.Generator().Layout().String()),
		logpkg.Int("origin_id", int(gen.Generator().Origin())))

	return &Runtime{
		db:      db,
		catalog: catalog.New(db),
		gen:     gen,
		config:  cfg,
		logger:  logger,
		stats:   stats,
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// NextID mints an id from the shared generator.
func (r *Runtime) NextID() (snowflake.ID, error) {
	id, err := r.gen.NextID()
	if err == nil {
		r.stats.minted.Add(1)
	}
	return id, err
}

// Generator returns the underlying generator for read-only accessors.
func (r *Runtime) Generator() *snowflake.Generator { return r.gen.Generator() }

// Catalog returns the article/author store.
func (r *Runtime) Catalog() *catalog.Catalog { return r.catalog }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the runtime logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }

// Stats returns the runtime counters.
func (r *Runtime) Stats() *Stats { return r.stats }

// Stats counts ids minted and storage traffic. It satisfies
// pebblestore.MetricsHook.
type Stats struct {
	minted    atomic.Uint64
	reads     atomic.Uint64
	readBytes atomic.Uint64
	commits   atomic.Uint64
	writeOps  atomic.Uint64
}

// ObserveRead counts one point read and its value size.
func (s *Stats) ObserveRead(_ time.Duration, bytes int) {
	s.reads.Add(1)
	s.readBytes.Add(uint64(bytes))
}

// ObserveBatchCommit counts one committed batch and its operations.
func (s *Stats) ObserveBatchCommit(_ time.Duration, numOps int, _ int) {
	s.commits.Add(1)
	s.writeOps.Add(uint64(numOps))
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	IDsMinted    uint64 `json:"idsMinted"`
	Reads        uint64 `json:"reads"`
	ReadBytes    uint64 `json:"readBytes"`
	BatchCommits uint64 `json:"batchCommits"`
	WriteOps     uint64 `json:"writeOps"`
}

// Snapshot copies the counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		IDsMinted:    s.minted.Load(),
		Reads:        s.reads.Load(),
		ReadBytes:    s.readBytes.Load(),
		BatchCommits: s.commits.Load(),
		WriteOps:     s.writeOps.Load(),
	}
}
