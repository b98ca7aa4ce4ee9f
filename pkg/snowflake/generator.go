package snowflake

import (
	"fmt"
	"sync"
	"time"

	logpkg "github.com/rzbill/interticle/pkg/log"
)

// Clock returns the wall-clock time in Unix milliseconds.
type Clock func() int64

// SystemClock reads time.Now.
func SystemClock() int64 { return time.Now().UnixMilli() }

// Generator mints ids for one origin. It is not safe for concurrent use.
type Generator struct {
	epoch  int64
	layout Layout
	origin uint16
	now    Clock
	logger logpkg.Logger

	// lastMs is the timestamp offset of the last minted id, or of construction
	// time until the first id is minted.
	lastMs   int64
	sequence uint16
	minted   bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithEpoch overrides the reference instant (Unix ms).
func WithEpoch(epochMs int64) Option { return func(g *Generator) { g.epoch = epochMs } }

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option { return func(g *Generator) { g.now = c } }

// WithLogger reports clock regressions to l.
func WithLogger(l logpkg.Logger) Option { return func(g *Generator) { g.logger = l } }

// NewGenerator creates a generator for a 10-bit origin server id.
func NewGenerator(origin uint16, opts ...Option) (*Generator, error) {
	if uint64(origin) > OriginField.Max() {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidOrigin, origin, OriginField.Max())
	}
	return newGenerator(LayoutOrigin, origin, opts), nil
}

// NewDatacenterGenerator creates a generator using the 41/5/5/12 layout.
func NewDatacenterGenerator(datacenter, worker uint8, opts ...Option) (*Generator, error) {
	origin, err := DatacenterOrigin(datacenter, worker)
	if err != nil {
		return nil, err
	}
	return newGenerator(LayoutDatacenter, origin, opts), nil
}

func newGenerator(layout Layout, origin uint16, opts []Option) *Generator {
	g := &Generator{epoch: Epoch, layout: layout, origin: origin, now: SystemClock}
	for _, opt := range opts {
		opt(g)
	}
	g.lastMs = g.now() - g.epoch
	return g
}

// Origin returns the packed 10-bit origin id.
func (g *Generator) Origin() uint16 { return g.origin }

// Layout returns the field layout the generator was built with.
func (g *Generator) Layout() Layout { return g.layout }

// Epoch returns the reference instant in Unix ms.
func (g *Generator) Epoch() int64 { return g.epoch }

// NextID mints the next id. On clock regression or an out-of-range clock it
// returns an error and leaves the generator state unchanged.
func (g *Generator) NextID() (ID, error) {
	now := g.now() - g.epoch
	var seq uint16
	if g.minted && now == g.lastMs {
		seq = (g.sequence + 1) & uint16(SequenceField.Max())
		if seq == 0 {
			now = g.tilNextMillis(g.lastMs)
		}
	}
	if now < g.lastMs {
		err := &ClockRegressionError{LastMs: g.lastMs, NowMs: now}
		if g.logger != nil {
			g.logger.Error("clock is moving backwards, rejecting requests",
				logpkg.Int64("until_ms", g.lastMs+g.epoch),
				logpkg.Int64("backward_ms", err.Backward()),
			)
		}
		return 0, err
	}
	if now < 0 || uint64(now) > TimestampField.Max() {
		return 0, fmt.Errorf("%w: offset %d ms from epoch %d", ErrTimestampOutOfRange, now, g.epoch)
	}
	g.lastMs = now
	g.sequence = seq
	g.minted = true
	return Compose(uint64(now), g.origin, seq), nil
}

// tilNextMillis waits until the clock passes last and returns the new offset.
func (g *Generator) tilNextMillis(last int64) int64 {
	for {
		ms := g.now() - g.epoch
		if ms > last {
			return ms
		}
		time.Sleep(time.Millisecond / 8)
	}
}

// Locked serializes access to a Generator shared by several goroutines.
type Locked struct {
	mu sync.Mutex
	g  *Generator
}

// NewLocked wraps g. g must not be used directly afterwards.
func NewLocked(g *Generator) *Locked { return &Locked{g: g} }

// NextID mints an id under the lock.
func (l *Locked) NextID() (ID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.NextID()
}

// Generator returns the wrapped generator for read-only accessors.
func (l *Locked) Generator() *Generator { return l.g }
