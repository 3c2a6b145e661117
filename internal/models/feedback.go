package models

// Feedback is an append-only note from a user about the app.
type Feedback struct {
	Base
	UserID  string `gorm:"size:36;not null;index" json:"user_id"`
	Message string `gorm:"type:text;not null" json:"message"`
	Rating  int    `gorm:"not null" json:"rating"`
}

// TableName keeps the singular table name used by the hosted backend.
func (Feedback) TableName() string {
	return "feedback"
}
