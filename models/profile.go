package models

import (
	"time"
)

type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	Role      string    `json:"role" gorm:"default:'customer'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

type Ticket struct {
	ID        string       `json:"id" gorm:"primaryKey"`
	UserID    string       `json:"user_id" gorm:"not null;index"`
	Subject   string       `json:"subject" gorm:"not null"`
	Message   string       `json:"message"`
	Status    TicketStatus `json:"status" gorm:"not null;default:'open';index"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
	ClosedAt  *time.Time   `json:"closed_at,omitempty"`
}
