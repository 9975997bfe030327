package models

import (
	"time"

	dbtypes "github.com/angelmondragon/mechanicshop-backend/pkg/db/types"
)

// ServiceTicket is one repair job for one customer's vehicle.
type ServiceTicket struct {
	ID            uint         `gorm:"primaryKey;autoIncrement"`
	VIN           string       `gorm:"column:vin;size:255;not null"`
	ServiceDate   dbtypes.Date `gorm:"column:service_date;type:date"`
	CustomerIssue string       `gorm:"column:customer_issue;size:350;not null"`
	CustomerID    uint         `gorm:"column:customer_id;not null;index"`
	Customer      *Customer    `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Parts         []TicketPart `gorm:"foreignKey:ServiceTicketID"`
	Mechanics     []Mechanic   `gorm:"-"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (ServiceTicket) TableName() string { return "service_tickets" }

// MechanicService is the ticket/mechanic junction row. The composite primary key
// keeps each pair unique.
type MechanicService struct {
	MechanicID uint `gorm:"column:mechanic_id;primaryKey;autoIncrement:false"`
	ServiceID  uint `gorm:"column:service_id;primaryKey;autoIncrement:false;index"`
}

func (MechanicService) TableName() string { return "mechanic_services" }

// TicketPart records how many units of an inventory part a ticket consumed.
type TicketPart struct {
	ID              uint       `gorm:"primaryKey;autoIncrement"`
	ServiceTicketID uint       `gorm:"column:service_ticket_id;not null;uniqueIndex:service_inventory_ticket_part_key,priority:1"`
	InventoryID     uint       `gorm:"column:inventory_id;not null;uniqueIndex:service_inventory_ticket_part_key,priority:2;index"`
	Quantity        int        `gorm:"column:quantity;not null"`
	Inventory       *Inventory `gorm:"foreignKey:InventoryID"`
}

func (TicketPart) TableName() string { return "service_inventory" }

// All lists every model for AutoMigrate in sqlite mode and tests.
func All() []any {
	return []any{
		&Customer{},
		&Mechanic{},
		&Inventory{},
		&ServiceTicket{},
		&MechanicService{},
		&TicketPart{},
	}
}
