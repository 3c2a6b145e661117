package models

import "github.com/shopspring/decimal"

// Expense is a single spending record. CategoryID is fixed at creation.
type Expense struct {
	Base
	UserID      string          `gorm:"size:36;not null;index" json:"user_id"`
	CategoryID  string          `gorm:"size:36;not null" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description string          `gorm:"not null" json:"description"`

	// Category is a display-only join; it is nil when the category is gone.
	Category *Category `gorm:"foreignKey:CategoryID" json:"categories,omitempty"`
}
