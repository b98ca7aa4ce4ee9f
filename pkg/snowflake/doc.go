// Package snowflake provides Interticle's 64-bit, time-sortable identifier
// and the generator that mints it.
//
// # Format
//
// An ID is a 64-bit unsigned integer. Read as a zero-padded 64-character
// binary string, its fields sit at fixed offsets:
//
//	bit  0        sign guard, always 0 for minted ids
//	bits 1..41    milliseconds since Epoch (41 bits)
//	bits 42..51   origin server id (10 bits), or
//	              datacenter (42..46) + worker (47..51) in the datacenter layout
//	bits 52..63   per-millisecond sequence (12 bits)
//
// Because the timestamp occupies the most significant bits, numeric order of
// ids follows creation order.
//
// # Monotonicity
//
// A Generator emits strictly increasing ids while the wall clock does not move
// backwards:
//   - within one millisecond the sequence is incremented; when it wraps the
//     generator waits for the next millisecond.
//   - if the clock moves backwards the generator refuses to mint and returns a
//     *ClockRegressionError; its state is untouched so a later call succeeds
//     once the clock catches up.
//
// A Generator is owned by one caller at a time. Use Locked to share one.
//
// Usage
//
//	g, _ := snowflake.NewGenerator(7)
//	id, err := g.NextID()
//	s := id.String()          // decimal, as exchanged between servers
//	ts := id.TimestampOffset() // ms since snowflake.Epoch
package snowflake
