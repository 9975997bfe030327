package tickets

import (
	"context"
	"fmt"
	"math"

	"github.com/angelmondragon/mechanicshop-backend/internal/repo"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes service ticket persistence plus the two ticket relations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a tickets repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, ticket *models.ServiceTicket) error {
	return r.DB(ctx).Omit(clause.Associations).Create(ticket).Error
}

// FindByID loads a ticket with its customer and parts. Mechanics are attached separately.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.ServiceTicket, error) {
	var ticket models.ServiceTicket
	err := r.withRelations(ctx).First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Lock loads the bare ticket row and holds a row lock for the rest of the
// transaction so concurrent relation edits on one ticket serialize.
func (r *Repository) Lock(ctx context.Context, id uint) (*models.ServiceTicket, error) {
	var ticket models.ServiceTicket
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *Repository) List(ctx context.Context) ([]models.ServiceTicket, error) {
	rows := []models.ServiceTicket{}
	if err := r.withRelations(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uint) ([]models.ServiceTicket, error) {
	rows := []models.ServiceTicket{}
	err := r.withRelations(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) withRelations(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Preload("Customer").
		Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// MechanicsByTicket returns the assigned mechanics of each ticket, ordered by mechanic id.
func (r *Repository) MechanicsByTicket(ctx context.Context, ticketIDs []uint) (map[uint][]models.Mechanic, error) {
	out := make(map[uint][]models.Mechanic, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return out, nil
	}

	var links []models.MechanicService
	if err := r.DB(ctx).Where("service_id IN ?", ticketIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(links))
	seen := make(map[uint]struct{}, len(links))
	for _, link := range links {
		if _, ok := seen[link.MechanicID]; ok {
			continue
		}
		seen[link.MechanicID] = struct{}{}
		ids = append(ids, link.MechanicID)
	}

	var mechanics []models.Mechanic
	if err := r.DB(ctx).Where("id IN ?", ids).Order("id ASC").Find(&mechanics).Error; err != nil {
		return nil, err
	}

	assigned := make(map[uint]map[uint]struct{}, len(ticketIDs))
	for _, link := range links {
		if assigned[link.ServiceID] == nil {
			assigned[link.ServiceID] = map[uint]struct{}{}
		}
		assigned[link.ServiceID][link.MechanicID] = struct{}{}
	}
	for _, mechanic := range mechanics {
		for ticketID, set := range assigned {
			if _, ok := set[mechanic.ID]; ok {
				out[ticketID] = append(out[ticketID], mechanic)
			}
		}
	}
	return out, nil
}

// AttachMechanic inserts the pair and reports whether a row was added. An
// existing pair is left alone.
func (r *Repository) AttachMechanic(ctx context.Context, ticketID, mechanicID uint) (bool, error) {
	res := r.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.MechanicService{MechanicID: mechanicID, ServiceID: ticketID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DetachMechanic deletes the pair and reports whether it existed.
func (r *Repository) DetachMechanic(ctx context.Context, ticketID, mechanicID uint) (bool, error) {
	res := r.DB(ctx).
		Where("service_id = ? AND mechanic_id = ?", ticketID, mechanicID).
		Delete(&models.MechanicService{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) IsAttached(ctx context.Context, ticketID, mechanicID uint) (bool, error) {
	count, err := r.CountWhere(ctx, &models.MechanicService{}, "service_id = ? AND mechanic_id = ?", ticketID, mechanicID)
	return count > 0, err
}

// MaxPartQuantity bounds the stored total of one ticket part; the column is a
// 32-bit INTEGER.
const MaxPartQuantity = math.MaxInt32

// UpsertPart adds quantity to the ticket/part pair in a single statement and
// returns the stored total. ok is false, and nothing is written, when the new
// total would exceed MaxPartQuantity.
func (r *Repository) UpsertPart(ctx context.Context, ticketID, inventoryID uint, quantity int) (total int, ok bool, err error) {
	table := models.TicketPart{}.TableName()
	sum := fmt.Sprintf("%s.quantity + excluded.quantity", table)
	part := models.TicketPart{ServiceTicketID: ticketID, InventoryID: inventoryID, Quantity: quantity}
	res := r.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "service_ticket_id"}, {Name: "inventory_id"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr(sum)}),
			Where:     clause.Where{Exprs: []clause.Expression{gorm.Expr(sum+" <= ?", MaxPartQuantity)}},
		}).
		Create(&part)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}

	var stored models.TicketPart
	err = r.DB(ctx).
		Where("service_ticket_id = ? AND inventory_id = ?", ticketID, inventoryID).
		First(&stored).Error
	if err != nil {
		return 0, false, err
	}
	return stored.Quantity, true, nil
}

// Delete removes the ticket with its mechanic assignments and parts. It reports
// whether the ticket existed.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	if err := r.DB(ctx).Where("service_id = ?", id).Delete(&models.MechanicService{}).Error; err != nil {
		return false, err
	}
	if err := r.DB(ctx).Where("service_ticket_id = ?", id).Delete(&models.TicketPart{}).Error; err != nil {
		return false, err
	}
	res := r.DB(ctx).Delete(&models.ServiceTicket{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
