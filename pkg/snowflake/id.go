package snowflake

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	bwsnowflake "github.com/bwmarrin/snowflake"
)

// ID is an immutable Interticle snowflake id.
type ID uint64

// FromUint64 wraps a raw 64-bit value.
func FromUint64(v uint64) ID { return ID(v) }

// FromBigInt wraps an arbitrary-precision integer. It must be non-negative
// and fit in 64 bits.
func FromBigInt(v *big.Int) (ID, error) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 64 {
		return 0, fmt.Errorf("%w: %v does not fit an id", ErrInvalidArgument, v)
	}
	return ID(v.Uint64()), nil
}

// FromString parses digits in the given radix. Only 2, 8, 10 and 16 are
// accepted; a zero radix is rejected like any other unsupported value.
func FromString(digits string, radix int) (ID, error) {
	switch radix {
	case 2, 8, 10, 16:
	default:
		return 0, fmt.Errorf("%w: unsupported radix %d", ErrInvalidArgument, radix)
	}
	v, err := strconv.ParseUint(digits, radix, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q in base %d", ErrInvalidArgument, digits, radix)
	}
	return ID(v), nil
}

// Parse parses a decimal id.
func Parse(s string) (ID, error) { return FromString(s, 10) }

// ParseBase58 parses the compact form returned by Base58. Input that
// overflows 63 bits or is not in canonical form is rejected.
func ParseBase58(s string) (ID, error) {
	v, err := bwsnowflake.ParseBase58([]byte(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if v < 0 || v.Base58() != s {
		return 0, fmt.Errorf("%w: base58 %q out of range", ErrInvalidArgument, s)
	}
	return ID(v.Int64()), nil
}

// Uint64 returns the raw value.
func (id ID) Uint64() uint64 { return uint64(id) }

// BigInt returns the value as an arbitrary-precision integer.
func (id ID) BigInt() *big.Int { return new(big.Int).SetUint64(uint64(id)) }

// TimestampOffset returns milliseconds since the epoch the id was minted with.
func (id ID) TimestampOffset() uint64 { return TimestampField.Extract(uint64(id)) }

// OriginID returns the 10-bit origin server id.
func (id ID) OriginID() uint16 { return uint16(OriginField.Extract(uint64(id))) }

// DatacenterID returns the datacenter half of the origin (datacenter layout).
func (id ID) DatacenterID() uint8 { return uint8(DatacenterField.Extract(uint64(id))) }

// WorkerID returns the worker half of the origin (datacenter layout).
func (id ID) WorkerID() uint8 { return uint8(WorkerField.Extract(uint64(id))) }

// SequenceID returns the per-millisecond sequence.
func (id ID) SequenceID() uint16 { return uint16(SequenceField.Extract(uint64(id))) }

// Time returns the mint time given the epoch in Unix milliseconds.
func (id ID) Time(epochMs int64) time.Time {
	return time.UnixMilli(epochMs + int64(id.TimestampOffset())).UTC()
}

// Binary returns the 64-character zero-padded base-2 form.
func (id ID) Binary() string { return EncodeBits(uint64(id), 64) }

// Serialize formats the id in radix 2 through 36.
func (id ID) Serialize(radix int) (string, error) {
	if radix < 2 || radix > 36 {
		return "", fmt.Errorf("%w: got %d", ErrRadixRange, radix)
	}
	return strconv.FormatUint(uint64(id), radix), nil
}

// String returns the decimal form used on the wire.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Base58 returns a compact, URL-safe form. Ids with the sign guard set have
// no compact form.
func (id ID) Base58() (string, error) {
	c, err := id.compact()
	if err != nil {
		return "", err
	}
	return c.Base58(), nil
}

// Base32 returns the z-base-32 form. Same restriction as Base58.
func (id ID) Base32() (string, error) {
	c, err := id.compact()
	if err != nil {
		return "", err
	}
	return c.Base32(), nil
}

func (id ID) compact() (bwsnowflake.ID, error) {
	if uint64(id) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: sign guard set on %s", ErrInvalidArgument, id)
	}
	return bwsnowflake.ID(int64(id)), nil
}

// MarshalJSON encodes the id as a decimal string so 64-bit values survive
// JSON number handling on the other side.
func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, id.String()), nil
}

// UnmarshalJSON accepts a decimal string or a bare JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		s = u
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
