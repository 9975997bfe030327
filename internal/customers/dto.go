package customers

import (
	"strings"

	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// CustomerDTO is the public customer representation. The password never leaves the API.
type CustomerDTO struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Salary  float64 `json:"salary"`
}

// FromModel maps the persisted customer into a DTO.
func FromModel(m *models.Customer) *CustomerDTO {
	if m == nil {
		return nil
	}
	return &CustomerDTO{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Address: m.Address,
		Phone:   m.Phone,
		Salary:  m.Salary.InexactFloat64(),
	}
}

// FromModels maps a slice of customers, always returning a non-nil slice.
func FromModels(rows []models.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// CreateCustomerInput is the payload accepted by POST /customers/.
type CreateCustomerInput struct {
	Name     string           `json:"name" validate:"required,max=255"`
	Email    string           `json:"email" validate:"required,email,max=400"`
	Password string           `json:"password" validate:"required,max=300"`
	Address  string           `json:"address" validate:"required,max=300"`
	Phone    string           `json:"phone" validate:"required,max=120"`
	Salary   *decimal.Decimal `json:"salary" validate:"required"`
}

// ToModel builds a new customer row from the payload.
func (in CreateCustomerInput) ToModel() *models.Customer {
	m := &models.Customer{
		Name:     in.Name,
		Email:    normalizeEmail(in.Email),
		Password: in.Password,
		Address:  in.Address,
		Phone:    in.Phone,
	}
	if in.Salary != nil {
		m.Salary = *in.Salary
	}
	return m
}

// UpdateCustomerInput enumerates the fields a customer may change on themselves.
// Nil fields are left untouched.
type UpdateCustomerInput struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email    *string          `json:"email,omitempty" validate:"omitempty,email,max=400"`
	Password *string          `json:"password,omitempty" validate:"omitempty,min=1,max=300"`
	Address  *string          `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
	Phone    *string          `json:"phone,omitempty" validate:"omitempty,min=1,max=120"`
	Salary   *decimal.Decimal `json:"salary,omitempty"`
}

// Apply copies the set fields onto m.
func (in UpdateCustomerInput) Apply(m *models.Customer) {
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Email != nil {
		m.Email = normalizeEmail(*in.Email)
	}
	if in.Password != nil {
		m.Password = *in.Password
	}
	if in.Address != nil {
		m.Address = *in.Address
	}
	if in.Phone != nil {
		m.Phone = *in.Phone
	}
	if in.Salary != nil {
		m.Salary = *in.Salary
	}
}

// LoginInput carries customer credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
