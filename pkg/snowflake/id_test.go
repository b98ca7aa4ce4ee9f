package snowflake

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeRoundTrip(t *testing.T) {
	cases := []struct {
		ts     uint64
		origin uint16
		seq    uint16
	}{
		{0, 0, 0},
		{123, 7, 0},
		{TimestampField.Max(), 1023, 4095},
		{1 << 40, 512, 1},
		{987654321, 1, 4000},
	}
	for _, c := range cases {
		id := Compose(c.ts, c.origin, c.seq)
		assert.Equal(t, c.ts, id.TimestampOffset())
		assert.Equal(t, c.origin, id.OriginID())
		assert.Equal(t, c.seq, id.SequenceID())

		viaBits, err := ComposeBits(c.ts, c.origin, c.seq)
		require.NoError(t, err)
		assert.Equal(t, id, viaBits)

		bits := id.Binary()
		require.Len(t, bits, 64)
		assert.Equal(t, byte('0'), bits[0], "sign guard")
		ts, err := DecodeBits(bits, 1, 42)
		require.NoError(t, err)
		assert.Equal(t, c.ts, ts)
	}
}

func TestDatacenterFields(t *testing.T) {
	origin, err := DatacenterOrigin(3, 17)
	require.NoError(t, err)
	id := Compose(55, origin, 9)
	assert.Equal(t, uint8(3), id.DatacenterID())
	assert.Equal(t, uint8(17), id.WorkerID())
	assert.Equal(t, uint16(3<<5|17), id.OriginID())

	_, err = DatacenterOrigin(32, 0)
	assert.ErrorIs(t, err, ErrInvalidOrigin)
	_, err = DatacenterOrigin(0, 32)
	assert.ErrorIs(t, err, ErrInvalidOrigin)
}

func TestFromStringRadixes(t *testing.T) {
	v := ID(123456789012345)
	for _, radix := range []int{2, 8, 10, 16} {
		s, err := v.Serialize(radix)
		require.NoError(t, err)
		got, err := FromString(s, radix)
		require.NoError(t, err)
		assert.Equal(t, v.String(), got.String(), "radix %d", radix)
	}
}

func TestFromStringRejectsRadix(t *testing.T) {
	for _, radix := range []int{0, 3, 36} {
		_, err := FromString("10", radix)
		assert.ErrorIs(t, err, ErrInvalidArgument, "radix %d", radix)
	}
	_, err := FromString("12a", 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FromString("1"+EncodeBits(0, 64), 2)
	assert.ErrorIs(t, err, ErrInvalidArgument, "65 bits")
}

func TestSerializeRadixRange(t *testing.T) {
	id := ID(35)
	s, err := id.Serialize(36)
	require.NoError(t, err)
	assert.Equal(t, "z", s)

	for _, radix := range []int{-1, 0, 1, 37} {
		_, err := id.Serialize(radix)
		assert.ErrorIs(t, err, ErrRadixRange, "radix %d", radix)
	}
}

func TestFromBigInt(t *testing.T) {
	id, err := FromBigInt(big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)
	assert.Equal(t, "42", id.BigInt().String())

	limit := new(big.Int).SetUint64(^uint64(0))
	id, err = FromBigInt(limit)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), id.Uint64())

	_, err = FromBigInt(new(big.Int).Add(limit, big.NewInt(1)))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FromBigInt(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FromBigInt(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestJSON(t *testing.T) {
	type doc struct {
		ID    ID  `json:"id"`
		Other *ID `json:"other,omitempty"`
	}
	b, err := json.Marshal(doc{ID: 18446744073709551615})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"18446744073709551615"}`, string(b))

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"id":"123456789012345"}`), &d))
	assert.Equal(t, ID(123456789012345), d.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":77}`), &d))
	assert.Equal(t, ID(77), d.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id":"x1"}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"id":-1}`), &d))
}

func TestTextAndBase58(t *testing.T) {
	id := Compose(123, 7, 3)
	txt, err := id.MarshalText()
	require.NoError(t, err)
	var back ID
	require.NoError(t, back.UnmarshalText(txt))
	assert.Equal(t, id, back)

	b58, err := id.Base58()
	require.NoError(t, err)
	parsed, err := ParseBase58(b58)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	b32, err := id.Base32()
	require.NoError(t, err)
	assert.NotEmpty(t, b32)

	_, err = ID(1 << 63).Base58()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ID(1 << 63).Base32()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ParseBase58("0OIl")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	for _, in := range []string{"zzzzzzzzzzzzz", "zzzzzzzzzzzz", "", "11"} {
		_, err = ParseBase58(in)
		assert.ErrorIs(t, err, ErrInvalidArgument, in)
	}

	maxB58, err := ID(1<<63 - 1).Base58()
	require.NoError(t, err)
	parsed, err = ParseBase58(maxB58)
	require.NoError(t, err)
	assert.Equal(t, ID(1<<63-1), parsed)
}

func TestTime(t *testing.T) {
	id := Compose(123, 0, 0)
	assert.Equal(t, int64(1672531200123), id.Time(Epoch).UnixMilli())
}
