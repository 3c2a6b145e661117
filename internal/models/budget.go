package models

import "github.com/shopspring/decimal"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// Valid reports whether p is a supported period.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodDaily || p == BudgetPeriodMonthly
}

// Budget is the spending limit for one period. There is at most one row per
// (user, period); setting it again replaces the amount.
type Budget struct {
	Base
	UserID string          `gorm:"size:36;not null;uniqueIndex:idx_budgets_user_period" json:"user_id"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Period BudgetPeriod    `gorm:"size:16;not null;uniqueIndex:idx_budgets_user_period" json:"period"`
}
