package snowflake

import (
	"fmt"
	"strings"
)

// Epoch is 2023-01-01T00:00:00.000Z in Unix milliseconds.
const Epoch int64 = 1672531200000

// Fixed field positions shared by both layouts.
var (
	TimestampField  = Field{Offset: 1, Width: 41}
	OriginField     = Field{Offset: 42, Width: 10}
	DatacenterField = Field{Offset: 42, Width: 5}
	WorkerField     = Field{Offset: 47, Width: 5}
	SequenceField   = Field{Offset: 52, Width: 12}
)

// Layout selects how the 10 origin bits are assigned.
type Layout int

const (
	// LayoutOrigin uses one 10-bit origin server id (41/10/12).
	LayoutOrigin Layout = iota
	// LayoutDatacenter splits the origin into datacenter and worker ids (41/5/5/12).
	LayoutDatacenter
)

func (l Layout) String() string {
	switch l {
	case LayoutOrigin:
		return "origin"
	case LayoutDatacenter:
		return "datacenter"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout maps "origin" or "datacenter" to a Layout. Empty means origin.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "origin":
		return LayoutOrigin, nil
	case "datacenter":
		return LayoutDatacenter, nil
	}
	return 0, fmt.Errorf("%w: unknown layout %q", ErrInvalidArgument, s)
}

// DatacenterOrigin packs datacenter and worker ids into the 10-bit origin.
func DatacenterOrigin(datacenter, worker uint8) (uint16, error) {
	if uint64(datacenter) > DatacenterField.Max() || uint64(worker) > WorkerField.Max() {
		return 0, fmt.Errorf("%w: datacenter %d worker %d", ErrInvalidOrigin, datacenter, worker)
	}
	return uint16(datacenter)<<WorkerField.Width | uint16(worker), nil
}

// Compose builds an id from its fields with shifts and masks. Values wider
// than their field are truncated to the low-order bits.
func Compose(timestampOffset uint64, origin uint16, sequence uint16) ID {
	var v uint64
	v = TimestampField.Insert(v, timestampOffset)
	v = OriginField.Insert(v, uint64(origin))
	v = SequenceField.Insert(v, uint64(sequence))
	return ID(v)
}

// ComposeBits builds the same id as Compose by concatenating the fields'
// fixed-width bit strings and parsing the result in base 2.
func ComposeBits(timestampOffset uint64, origin uint16, sequence uint16) (ID, error) {
	bits := TimestampField.Encode(timestampOffset) +
		OriginField.Encode(uint64(origin)) +
		SequenceField.Encode(uint64(sequence))
	return FromString(bits, 2)
}
