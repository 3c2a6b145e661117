package models

import "github.com/shopspring/decimal"

// MaxAmount is the first value that no longer fits a numeric(12,2) column.
var MaxAmount = decimal.New(1, 10)

// ValidAmount reports whether d can be stored as a positive numeric(12,2)
// amount without rounding.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThan(MaxAmount)
}
