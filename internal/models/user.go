package models

// User is an account of the self-hosted session store. When the managed
// backend is used, it owns users and this table stays empty.
type User struct {
	Base
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `gorm:"not null" json:"-"`
	RefreshTokenHash string `gorm:"size:64" json:"-"`
}
