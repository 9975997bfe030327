package tickets

import (
	"github.com/angelmondragon/mechanicshop-backend/internal/customers"
	"github.com/angelmondragon/mechanicshop-backend/internal/mechanics"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/mechanicshop-backend/pkg/db/types"
	"github.com/angelmondragon/mechanicshop-backend/pkg/types"
)

// CreateTicketInput carries the ticket attributes shared by both create endpoints.
type CreateTicketInput struct {
	VIN           string       `json:"VIN" validate:"required,max=255"`
	ServiceDate   dbtypes.Date `json:"service_date" validate:"required"`
	CustomerIssue string       `json:"customer_issue" validate:"required,max=350"`
	CustomerID    uint         `json:"customer_id" validate:"required"`
}

func (in CreateTicketInput) ToModel() *models.ServiceTicket {
	return &models.ServiceTicket{
		VIN:           in.VIN,
		ServiceDate:   in.ServiceDate,
		CustomerIssue: in.CustomerIssue,
		CustomerID:    in.CustomerID,
	}
}

// CreateWithMechanicsInput creates a ticket and assigns the listed mechanics.
type CreateWithMechanicsInput struct {
	CreateTicketInput
	MechanicIDs []int64 `json:"mechanic_ids" validate:"required"`
}

// EditMechanicsInput batches mechanic assignments and removals on one ticket.
type EditMechanicsInput struct {
	AddMechanicIDs    []int64 `json:"add_mechanic_ids" validate:"required"`
	RemoveMechanicIDs []int64 `json:"remove_mechanic_ids" validate:"required"`
}

// AddPartInput keeps both fields raw so quantity coercion and the missing-field
// check happen in a fixed order.
type AddPartInput struct {
	InventoryID types.RawScalar `json:"inventory_id"`
	Quantity    types.RawScalar `json:"quantity"`
}

// EditResult reports per-id outcomes of a batch edit alongside the updated ticket.
type EditResult struct {
	Messages []string
	Ticket   *models.ServiceTicket
}

// AddPartResult reports the accumulated quantity for the ticket/part pair.
type AddPartResult struct {
	ServiceTicketID uint
	InventoryID     uint
	Quantity        int
}

type PartDTO struct {
	InventoryID uint `json:"inventory_id"`
	Quantity    int  `json:"quantity"`
}

// TicketDTO is the public service ticket representation with nested relations.
type TicketDTO struct {
	ID            uint                    `json:"id"`
	VIN           string                  `json:"VIN"`
	ServiceDate   dbtypes.Date            `json:"service_date"`
	CustomerIssue string                  `json:"customer_issue"`
	CustomerID    uint                    `json:"customer_id"`
	Customer      *customers.CustomerDTO  `json:"customer"`
	Mechanics     []mechanics.MechanicDTO `json:"mechanics"`
	Parts         []PartDTO               `json:"parts"`
}

func FromModel(m *models.ServiceTicket) *TicketDTO {
	if m == nil {
		return nil
	}
	parts := make([]PartDTO, 0, len(m.Parts))
	for _, p := range m.Parts {
		parts = append(parts, PartDTO{InventoryID: p.InventoryID, Quantity: p.Quantity})
	}
	return &TicketDTO{
		ID:            m.ID,
		VIN:           m.VIN,
		ServiceDate:   m.ServiceDate,
		CustomerIssue: m.CustomerIssue,
		CustomerID:    m.CustomerID,
		Customer:      customers.FromModel(m.Customer),
		Mechanics:     mechanics.FromModels(m.Mechanics),
		Parts:         parts,
	}
}

func FromModels(rows []models.ServiceTicket) []TicketDTO {
	out := make([]TicketDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
