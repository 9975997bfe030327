package models

import "time"

type Mechanic struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:255;not null"`
	Email     string    `gorm:"column:email;size:400;not null;uniqueIndex:mechanics_email_key"`
	Address   string    `gorm:"column:address;size:300;not null"`
	Phone     string    `gorm:"column:phone;size:100;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Mechanic) TableName() string { return "mechanics" }
