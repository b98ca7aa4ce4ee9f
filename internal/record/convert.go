package record

import (
	"fmt"
	"math/big"

	"github.com/rzbill/interticle/pkg/snowflake"
)

func toID(v any) (snowflake.ID, error) {
	switch t := v.(type) {
	case snowflake.ID:
		return t, nil
	case *snowflake.ID:
		if t == nil {
			break
		}
		return *t, nil
	case *big.Int:
		return snowflake.FromBigInt(t)
	case uint64:
		return snowflake.ID(t), nil
	case uint32:
		return snowflake.ID(t), nil
	case uint:
		return snowflake.ID(t), nil
	case int64:
		if t >= 0 {
			return snowflake.ID(t), nil
		}
	case int:
		if t >= 0 {
			return snowflake.ID(t), nil
		}
	case string:
		return snowflake.Parse(t)
	}
	return 0, fmt.Errorf("%w: cannot use %T(%v) as an id", snowflake.ErrInvalidArgument, v, v)
}
