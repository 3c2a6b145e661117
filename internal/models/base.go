package models

import (
	"time"

	"fitr/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts travel as JSON numbers, matching the managed backend's numeric columns.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains the columns every user-owned table shares.
type Base struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Expense{},
		&Budget{},
		&Feedback{},
	}
}
