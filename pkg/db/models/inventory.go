package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is a stocked part that can be attached to service tickets.
type Inventory struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;size:225;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inventory) TableName() string { return "inventories" }
