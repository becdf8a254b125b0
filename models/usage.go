package models

import (
	"time"
)

// UsageLog is an append-only record of one gateway request. Entries are
// written once and never updated.
type UsageLog struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	APIKeyID       string    `json:"api_key_id" gorm:"not null;index"`
	Endpoint       string    `json:"endpoint" gorm:"not null"`
	Method         string    `json:"method" gorm:"not null"`
	StatusCode     int       `json:"status_code" gorm:"not null"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
