package mechanics

import (
	"context"

	"github.com/angelmondragon/mechanicshop-backend/internal/repo"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes mechanic persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a mechanics repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, mechanic *models.Mechanic) error {
	return r.DB(ctx).Create(mechanic).Error
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	if err := r.DB(ctx).First(&mechanic, id).Error; err != nil {
		return nil, err
	}
	return &mechanic, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	if err := r.DB(ctx).Where("email = ?", email).First(&mechanic).Error; err != nil {
		return nil, err
	}
	return &mechanic, nil
}

// List returns every mechanic ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Mechanic, error) {
	rows := []models.Mechanic{}
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDs returns the mechanics matching ids ordered by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Mechanic, error) {
	rows := []models.Mechanic{}
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.DB(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchByName returns mechanics whose name contains fragment, case-sensitively.
func (r *Repository) SearchByName(ctx context.Context, fragment string) ([]models.Mechanic, error) {
	// LIKE folds ASCII case on sqlite, so match on the position function of each dialect.
	match := "strpos(name, ?) > 0"
	if r.Dialect() == "sqlite" {
		match = "instr(name, ?) > 0"
	}
	rows := []models.Mechanic{}
	if err := r.DB(ctx).Where(match, fragment).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Save(ctx context.Context, mechanic *models.Mechanic) error {
	return r.DB(ctx).Save(mechanic).Error
}

// Delete removes the mechanic and its ticket assignments. Callers run it inside a transaction.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	if err := r.DB(ctx).Where("mechanic_id = ?", id).Delete(&models.MechanicService{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Delete(&models.Mechanic{}, id).Error
}

type ticketCount struct {
	MechanicID uint
	Tickets    int64
}

// TicketCounts returns the number of tickets each assigned mechanic works on.
// Mechanics without tickets are absent from the map.
func (r *Repository) TicketCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []ticketCount
	err := r.DB(ctx).
		Model(&models.MechanicService{}).
		Select("mechanic_id, COUNT(*) AS tickets").
		Group("mechanic_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.MechanicID] = row.Tickets
	}
	return counts, nil
}
