package inventories

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/mechanicshop-backend/pkg/db"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrInventoryInUse    = errors.New("inventory is used by service tickets")
	ErrNegativePrice     = errors.New("price must not be negative")
)

// Service defines inventory part management.
type Service interface {
	Create(ctx context.Context, input CreateInventoryInput) (*models.Inventory, error)
	Get(ctx context.Context, id uint) (*models.Inventory, error)
	List(ctx context.Context) ([]models.Inventory, error)
	Update(ctx context.Context, id uint, input UpdateInventoryInput) (*models.Inventory, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	db   *db.Client
	repo *Repository
}

// NewService wires inventory dependencies.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	return &service{db: client, repo: NewRepository(client.DB())}, nil
}

func (s *service) Create(ctx context.Context, input CreateInventoryInput) (*models.Inventory, error) {
	inventory := input.ToModel()
	if inventory.Price.IsNegative() {
		return nil, negativePrice()
	}
	if err := s.repo.Create(ctx, inventory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory")
	}
	return inventory, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Inventory, error) {
	inventory, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Inventory id is not found.")
	}
	return inventory, nil
}

func (s *service) List(ctx context.Context) ([]models.Inventory, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventories")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInventoryInput) (*models.Inventory, error) {
	var updated *models.Inventory
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		inventory, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Inventory id is not found.")
		}
		input.Apply(inventory)
		if inventory.Price.IsNegative() {
			return negativePrice()
		}
		if err := repo.Save(ctx, inventory); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory")
		}
		updated = inventory
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an inventory part unless a service ticket still lists it.
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return notFoundOr(err, "Inventory not found.")
		}
		count, err := repo.CountTicketParts(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count inventory usage")
		}
		if count > 0 {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrInventoryInUse,
				fmt.Sprintf("Inventory id: %d is used by %d service ticket(s).", id, count))
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inventory")
		}
		return nil
	})
}

func negativePrice() error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrNegativePrice, "validation failed").
		WithDetails(map[string]string{"price": "must not be negative"})
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrInventoryNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory")
}
