package mechanics

import (
	"strings"

	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
)

// MechanicDTO is the public mechanic representation.
type MechanicDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func FromModel(m *models.Mechanic) *MechanicDTO {
	if m == nil {
		return nil
	}
	return &MechanicDTO{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Address: m.Address,
		Phone:   m.Phone,
	}
}

// FromModels maps a slice of mechanics, always returning a non-nil slice.
func FromModels(rows []models.Mechanic) []MechanicDTO {
	out := make([]MechanicDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

type CreateMechanicInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=400"`
	Address string `json:"address" validate:"required,max=300"`
	Phone   string `json:"phone" validate:"required,max=100"`
}

func (in CreateMechanicInput) ToModel() *models.Mechanic {
	return &models.Mechanic{
		Name:    in.Name,
		Email:   strings.TrimSpace(in.Email),
		Address: in.Address,
		Phone:   in.Phone,
	}
}

// UpdateMechanicInput enumerates the updatable mechanic fields; nil fields are kept.
type UpdateMechanicInput struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=400"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=1,max=100"`
}

func (in UpdateMechanicInput) Apply(m *models.Mechanic) {
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Email != nil {
		m.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		m.Address = *in.Address
	}
	if in.Phone != nil {
		m.Phone = *in.Phone
	}
}
