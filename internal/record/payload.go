package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rzbill/interticle/pkg/snowflake"
)

// IDFields are the field names that carry ids on the wire.
var IDFields = map[string]struct{}{"id": {}, "author_id": {}}

func isIDField(k string) bool {
	_, ok := IDFields[k]
	return ok
}

// EncodePayload encodes an untyped payload, writing id fields (at any depth)
// as decimal strings. Id fields may hold a snowflake.ID, *big.Int or any
// unsigned integer; other fields pass through unchanged.
func EncodePayload(m map[string]any) ([]byte, error) {
	out, err := encodeValue("", m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func encodeValue(key string, v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			enc, err := encodeValue(k, e)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			enc, err := encodeValue("", e)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	}
	if !isIDField(key) || v == nil {
		return v, nil
	}
	id, err := toID(v)
	if err != nil {
		return nil, fmt.Errorf("record: field %q: %w", key, err)
	}
	return id.String(), nil
}

// DecodePayload decodes a JSON object, turning the decimal strings in id
// fields (at any depth) into snowflake.ID values. Numbers elsewhere are kept
// as json.Number so large values are not rounded.
func DecodePayload(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("record: decode payload: %w", err)
	}
	out, err := decodeValue("", m)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func decodeValue(key string, v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			dec, err := decodeValue(k, e)
			if err != nil {
				return nil, err
			}
			t[k] = dec
		}
		return t, nil
	case []any:
		for i, e := range t {
			dec, err := decodeValue("", e)
			if err != nil {
				return nil, err
			}
			t[i] = dec
		}
		return t, nil
	}
	if !isIDField(key) {
		return v, nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("record: field %q: %w: unexpected %T", key, snowflake.ErrInvalidArgument, v)
	}
	id, err := snowflake.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("record: field %q: %w", key, err)
	}
	return id, nil
}
