package schemas

import "github.com/xkilldash9x/botctl/internal/jsnum"

// Number is a numeric form value. Every number the dashboard sends is a
// JavaScript Number, integer fields included, so it encodes the way
// JSON.stringify writes one: 100 rather than 1e+02, 0 for negative zero.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return jsnum.AppendJSON(nil, float64(n)), nil
}
