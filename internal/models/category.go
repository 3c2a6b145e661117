package models

// FallbackCategoryName labels expenses whose category cannot be resolved.
const FallbackCategoryName = "Uncategorized"

// DefaultCategoryNames are seeded for a user who has no categories yet.
var DefaultCategoryNames = []string{
	"Food & Dining",
	"Transportation",
	"Housing",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Healthcare",
	"Education",
	"Travel",
	"Other",
}

// Category groups expenses. Names are unique per user.
type Category struct {
	Base
	UserID string `gorm:"size:36;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
}
