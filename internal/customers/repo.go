package customers

import (
	"context"

	"github.com/angelmondragon/mechanicshop-backend/internal/repo"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	"github.com/angelmondragon/mechanicshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes customer persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Create(customer).Error
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns customers ordered by id. A nil page returns every row.
func (r *Repository) List(ctx context.Context, page *pagination.Params) ([]models.Customer, error) {
	query := r.DB(ctx).Order("id ASC")
	if page != nil {
		query = query.Offset(page.Offset()).Limit(page.Limit())
	}
	var rows []models.Customer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Save(customer).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(&models.Customer{}, id).Error
}

// CountTickets returns how many service tickets the customer owns.
func (r *Repository) CountTickets(ctx context.Context, customerID uint) (int64, error) {
	return r.CountWhere(ctx, &models.ServiceTicket{}, "customer_id = ?", customerID)
}
