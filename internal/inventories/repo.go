package inventories

import (
	"context"

	"github.com/angelmondragon/mechanicshop-backend/internal/repo"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes inventory persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an inventories repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, inventory *models.Inventory) error {
	return r.DB(ctx).Create(inventory).Error
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Inventory, error) {
	var inventory models.Inventory
	if err := r.DB(ctx).First(&inventory, id).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Inventory, error) {
	rows := []models.Inventory{}
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Save(ctx context.Context, inventory *models.Inventory) error {
	return r.DB(ctx).Save(inventory).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(&models.Inventory{}, id).Error
}

// CountTicketParts returns how many ticket part rows reference the inventory.
func (r *Repository) CountTicketParts(ctx context.Context, inventoryID uint) (int64, error) {
	return r.CountWhere(ctx, &models.TicketPart{}, "inventory_id = ?", inventoryID)
}
