package models

import "time"

// Session binds a browser cookie to the access token the backend issued at
// login. The token is stored sealed.
type Session struct {
	ID           string    `gorm:"primaryKey;size:36"`
	SealedAccess string    `gorm:"not null"`
	Email        string    `gorm:"index"`
	IPAddress    string
	UserAgent    string
	ExpiresAt    time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
