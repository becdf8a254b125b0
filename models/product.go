package models

import (
	"time"
)

type Product struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	CategoryID    string    `json:"category_id" gorm:"index"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Price         int64     `json:"price" gorm:"not null"`
	StockQuantity int       `json:"stock_quantity" gorm:"not null;default:0"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	Metadata      JSON      `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Category struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
