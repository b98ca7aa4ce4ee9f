package snowflake

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a malformed id, digit string, or radix.
	ErrInvalidArgument = errors.New("snowflake: invalid argument")
	// ErrRadixRange reports a serialization radix outside [2,36].
	ErrRadixRange = errors.New("snowflake: radix must be between 2 and 36")
	// ErrClockRegression is matched by every *ClockRegressionError.
	ErrClockRegression = errors.New("snowflake: clock moved backwards")
	// ErrTimestampOutOfRange reports a clock reading that does not fit the
	// 41-bit timestamp field (before Epoch or ~69 years after it).
	ErrTimestampOutOfRange = errors.New("snowflake: timestamp out of range")
	// ErrInvalidOrigin reports an origin, datacenter or worker id that does
	// not fit its field.
	ErrInvalidOrigin = errors.New("snowflake: origin id out of range")
)

// ClockRegressionError is returned by NextID when the wall clock reads
// earlier than the last minted timestamp. Both values are offsets from the
// generator's epoch in milliseconds.
type ClockRegressionError struct {
	LastMs int64
	NowMs  int64
}

// Backward returns the size of the backward jump in milliseconds.
func (e *ClockRegressionError) Backward() int64 { return e.LastMs - e.NowMs }

func (e *ClockRegressionError) Error() string {
	return fmt.Sprintf("snowflake: clock moved backwards, refusing to generate id for %d milliseconds", e.Backward())
}

// Is makes errors.Is(err, ErrClockRegression) hold.
func (e *ClockRegressionError) Is(target error) bool { return target == ErrClockRegression }
