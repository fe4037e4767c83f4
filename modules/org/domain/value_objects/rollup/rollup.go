package rollup

import "github.com/shopspring/decimal"

// Counters are the materialized aggregates carried by every level of the
// hierarchy. Capacities are kept to two decimal places.
type Counters struct {
	MemberCount    int     `json:"member_count"`
	CoreCount      int     `json:"core_count"`
	SubconCount    int     `json:"subcon_count"`
	TotalCapacity  float64 `json:"total_capacity"`
	CoreCapacity   float64 `json:"core_capacity"`
	SubconCapacity float64 `json:"subcon_capacity"`
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
