package models

import "time"

// AuditLog records the outcome of every form submission relayed to the backend.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"index"`
	Action    string    `json:"action" gorm:"not null"`   // KYC_CREATE, KYC_UPDATE, PAYMENT_SUBMIT
	Resource  string    `json:"resource" gorm:"not null"` // KYC, PAYMENT
	Outcome   string    `json:"outcome" gorm:"not null"`  // accepted, rejected, failed
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
