package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer owns service tickets and authenticates with email + password.
// Passwords are stored as submitted.
type Customer struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;size:255;not null"`
	Email     string          `gorm:"column:email;size:400;not null;uniqueIndex:customers_email_key"`
	Password  string          `gorm:"column:password;size:300;not null"`
	Address   string          `gorm:"column:address;size:300;not null"`
	Phone     string          `gorm:"column:phone;size:120;not null"`
	Salary    decimal.Decimal `gorm:"column:salary;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }
