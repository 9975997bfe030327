package inventories

import (
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// InventoryDTO is the public inventory part representation.
type InventoryDTO struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func FromModel(m *models.Inventory) *InventoryDTO {
	if m == nil {
		return nil
	}
	return &InventoryDTO{ID: m.ID, Name: m.Name, Price: m.Price.InexactFloat64()}
}

func FromModels(rows []models.Inventory) []InventoryDTO {
	out := make([]InventoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

type CreateInventoryInput struct {
	Name  string           `json:"name" validate:"required,max=225"`
	Price *decimal.Decimal `json:"price" validate:"required"`
}

func (in CreateInventoryInput) ToModel() *models.Inventory {
	m := &models.Inventory{Name: in.Name}
	if in.Price != nil {
		m.Price = *in.Price
	}
	return m
}

// UpdateInventoryInput enumerates the updatable inventory fields; nil fields are kept.
type UpdateInventoryInput struct {
	Name  *string          `json:"name,omitempty" validate:"omitempty,min=1,max=225"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

func (in UpdateInventoryInput) Apply(m *models.Inventory) {
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Price != nil {
		m.Price = *in.Price
	}
}
