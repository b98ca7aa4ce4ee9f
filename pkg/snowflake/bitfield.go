package snowflake

import (
	"fmt"
	"strconv"
	"strings"
)

// Pad left-pads input with pad and keeps the last cols characters. Inputs
// longer than cols are truncated from the left. An empty pad means "0".
func Pad(input string, cols int, pad string) string {
	if cols <= 0 {
		return ""
	}
	if pad == "" {
		pad = "0"
	}
	n := (cols + len(pad) - 1) / len(pad)
	s := strings.Repeat(pad, n) + input
	return s[len(s)-cols:]
}

// EncodeBits formats value in base 2, zero-padded to width characters.
// Values wider than width keep only their low-order width bits; callers must
// make sure the value fits its field.
func EncodeBits(value uint64, width int) string {
	return Pad(strconv.FormatUint(value, 2), width, "0")
}

// DecodeBits parses bits[start:end] as a base-2 integer.
func DecodeBits(bits string, start, end int) (uint64, error) {
	if start < 0 || end < start || end > len(bits) {
		return 0, fmt.Errorf("%w: bit range [%d,%d) of %d bits", ErrInvalidArgument, start, end, len(bits))
	}
	if start == end {
		return 0, nil
	}
	v, err := strconv.ParseUint(bits[start:end], 2, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return v, nil
}

// Field is a bit range of the 64-bit id. Offset counts from the most
// significant bit, matching the index into the 64-character binary form.
type Field struct {
	Offset int
	Width  int
}

func (f Field) shift() uint { return uint(64 - f.Offset - f.Width) }

// Max returns the largest value the field can hold.
func (f Field) Max() uint64 { return 1<<uint(f.Width) - 1 }

// Extract returns the field's value from v.
func (f Field) Extract(v uint64) uint64 { return (v >> f.shift()) & f.Max() }

// Insert returns v with the field set to x. Bits of x above Width are dropped.
func (f Field) Insert(v, x uint64) uint64 {
	mask := f.Max() << f.shift()
	return v&^mask | (x<<f.shift())&mask
}

// Decode reads the field from a 64-character binary string.
func (f Field) Decode(bits string) (uint64, error) {
	return DecodeBits(bits, f.Offset, f.Offset+f.Width)
}

// Encode formats x as the field's fixed-width bit string.
func (f Field) Encode(x uint64) string { return EncodeBits(x, f.Width) }
