package utils

import (
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// NumericToFloat64 converts a scanned numeric column to a float64 amount.
// Invalid (NULL) values become 0 so aggregation never sees NaN.
func NumericToFloat64(value pgtype.Numeric) float64 {
	if !value.Valid {
		return 0
	}
	if f, err := value.Float64Value(); err == nil {
		return f.Float64
	}
	// fallback to string parse
	text, err := value.MarshalJSON()
	if err != nil {
		return 0
	}
	out, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return 0
	}
	return out
}
