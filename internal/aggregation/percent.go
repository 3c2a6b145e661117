package aggregation

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent is a percentage that may be undefined, which happens when the
// denominator is zero. Undefined percentages must never be displayed as a
// number.
type Percent struct {
	value   decimal.Decimal
	defined bool
}

// PercentOf returns part*100/whole, undefined when whole is zero.
func PercentOf(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return Percent{}
	}
	return Percent{value: part.Mul(hundred).Div(whole), defined: true}
}

// Value returns the percentage and whether it is defined.
func (p Percent) Value() (decimal.Decimal, bool) {
	return p.value, p.defined
}

// Defined reports whether the percentage has a value.
func (p Percent) Defined() bool {
	return p.defined
}

// String formats with one decimal, "35.0%", or "n/a" when undefined.
func (p Percent) String() string {
	if !p.defined {
		return "n/a"
	}
	return p.value.StringFixed(1) + "%"
}

// MarshalJSON encodes the unrounded value, or null when undefined.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.defined {
		return []byte("null"), nil
	}
	return []byte(p.value.String()), nil
}
