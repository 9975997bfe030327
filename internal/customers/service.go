package customers

import (
	"context"
	"errors"

	"github.com/angelmondragon/mechanicshop-backend/pkg/db"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"github.com/angelmondragon/mechanicshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrHasTickets       = errors.New("customer still owns service tickets")
)

const msgEmailTaken = "Email already associated with an account."

// Service defines customer account operations.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	Get(ctx context.Context, id uint) (*models.Customer, error)
	List(ctx context.Context, page *pagination.Params) ([]models.Customer, error)
	Update(ctx context.Context, id uint, input UpdateCustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	db   *db.Client
	repo *Repository
}

// NewService wires customer dependencies.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	return &service{db: client, repo: NewRepository(client.DB())}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	customer := input.ToModel()
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := ensureEmailFree(ctx, repo, customer.Email, 0); err != nil {
			return err
		}
		if err := repo.Create(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrEmailTaken, msgEmailTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Customer not found.")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, page *pagination.Params) ([]models.Customer, error) {
	rows, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateCustomerInput) (*models.Customer, error) {
	var updated *models.Customer
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		customer, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "customer not found.")
		}

		previousEmail := customer.Email
		input.Apply(customer)
		if customer.Email != previousEmail {
			if err := ensureEmailFree(ctx, repo, customer.Email, customer.ID); err != nil {
				return err
			}
		}

		if err := repo.Save(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrEmailTaken, msgEmailTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the customer. Customers that still own service tickets are
// refused so tickets never point at a missing customer.
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return notFoundOr(err, "Customer not found.")
		}

		count, err := repo.CountTickets(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count customer tickets")
		}
		if count > 0 {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrHasTickets,
				"Customer still has service tickets; delete them before deleting the account.").
				WithDetails(map[string]any{"service_tickets": count})
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete customer")
		}
		return nil
	})
}

func ensureEmailFree(ctx context.Context, repo *Repository, email string, selfID uint) error {
	existing, err := repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check customer email")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrEmailTaken, msgEmailTaken)
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrCustomerNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
}
