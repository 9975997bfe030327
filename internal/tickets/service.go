package tickets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/mechanicshop-backend/internal/customers"
	"github.com/angelmondragon/mechanicshop-backend/internal/inventories"
	"github.com/angelmondragon/mechanicshop-backend/internal/mechanics"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	msgTicketNotFound    = "Service id is not found."
	msgEditNotFound      = "Service ticket not found."
	msgDeleteNotFound    = "service not found."
	msgCustomerMissing   = "Customer id not in an account."
	msgInvalidPair       = "Invalid service_id or mechanic_id"
	msgAlreadyAssigned   = "Details is already included in this service_tickets."
	msgNotAssigned       = "Mechanic is not assigned to this service ticket."
	msgPartsMissing      = "Both inventory_id and quantity are required."
	msgQuantityNotInt    = "Quantity must be an integer."
	msgQuantityPositive  = "Both inventory_id and a positive quantity are required."
	msgInvalidPartTarget = "Invalid service id or inventory id."
	msgQuantityTooLarge  = "Part quantity total is too large."
)

// Manager owns service tickets and their mechanic and part relations. Every
// mutation runs in one transaction and holds the ticket row while it edits
// relations.
type Manager interface {
	Create(ctx context.Context, input CreateTicketInput) (*models.ServiceTicket, error)
	CreateWithMechanics(ctx context.Context, input CreateWithMechanicsInput) (*models.ServiceTicket, error)
	Get(ctx context.Context, id uint) (*models.ServiceTicket, error)
	List(ctx context.Context) ([]models.ServiceTicket, error)
	ListForCustomer(ctx context.Context, customerID uint) ([]models.ServiceTicket, error)
	EditMechanics(ctx context.Context, id uint, input EditMechanicsInput) (*EditResult, error)
	Delete(ctx context.Context, id uint) error
	AssignMechanic(ctx context.Context, ticketID, mechanicID uint) error
	RemoveMechanic(ctx context.Context, ticketID, mechanicID uint) error
	DeleteMechanicFromTicket(ctx context.Context, ticketID, mechanicID uint) error
	AddPart(ctx context.Context, ticketID uint, input AddPartInput) (*AddPartResult, error)
}

type manager struct {
	db   *db.Client
	repo *Repository
}

// NewManager wires ticket dependencies.
func NewManager(client *db.Client) (Manager, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	return &manager{db: client, repo: NewRepository(client.DB())}, nil
}

func (m *manager) Create(ctx context.Context, input CreateTicketInput) (*models.ServiceTicket, error) {
	ticket := input.ToModel()
	err := m.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := ensureCustomer(ctx, tx, ticket.CustomerID); err != nil {
			return err
		}
		if err := NewRepository(tx).Create(ctx, ticket); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create service ticket")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, ticket.ID)
}

// CreateWithMechanics creates the ticket and its assignments atomically. An
// unknown mechanic id aborts the whole request.
func (m *manager) CreateWithMechanics(ctx context.Context, input CreateWithMechanicsInput) (*models.ServiceTicket, error) {
	ticket := input.ToModel()
	err := m.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := ensureCustomer(ctx, tx, ticket.CustomerID); err != nil {
			return err
		}
		repo := NewRepository(tx)
		if err := repo.Create(ctx, ticket); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create service ticket")
		}

		mechanicRepo := mechanics.NewRepository(tx)
		for _, raw := range input.MechanicIDs {
			mechanicID, found, err := lookupMechanic(ctx, mechanicRepo, raw)
			if err != nil {
				return err
			}
			if !found {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, mechanics.ErrMechanicNotFound,
					fmt.Sprintf("Invalid mechanic id: %d", raw)).WithStatus(http.StatusBadRequest)
			}
			if _, err := repo.AttachMechanic(ctx, ticket.ID, mechanicID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign mechanic")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, ticket.ID)
}

func (m *manager) Get(ctx context.Context, id uint) (*models.ServiceTicket, error) {
	ticket, err := m.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ticketNotFoundOr(err, msgTicketNotFound, http.StatusNotFound)
	}
	if err := m.attachMechanics(ctx, []*models.ServiceTicket{ticket}); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (m *manager) List(ctx context.Context) ([]models.ServiceTicket, error) {
	rows, err := m.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list service tickets")
	}
	return rows, m.attachMechanics(ctx, pointersTo(rows))
}

func (m *manager) ListForCustomer(ctx context.Context, customerID uint) ([]models.ServiceTicket, error) {
	rows, err := m.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customer service tickets")
	}
	return rows, m.attachMechanics(ctx, pointersTo(rows))
}

// EditMechanics applies additions then removals and reports one message per id.
// Unknown or redundant ids produce a message instead of failing the request.
func (m *manager) EditMechanics(ctx context.Context, id uint, input EditMechanicsInput) (*EditResult, error) {
	messages := make([]string, 0, len(input.AddMechanicIDs)+len(input.RemoveMechanicIDs))
	err := m.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.Lock(ctx, id); err != nil {
			return ticketNotFoundOr(err, msgEditNotFound, http.StatusNotFound)
		}
		mechanicRepo := mechanics.NewRepository(tx)

		for _, raw := range input.AddMechanicIDs {
			mechanicID, found, err := lookupMechanic(ctx, mechanicRepo, raw)
			if err != nil {
				return err
			}
			if !found {
				messages = append(messages, fmt.Sprintf("Mechanic id: %d does not exist.", raw))
				continue
			}
			added, err := repo.AttachMechanic(ctx, id, mechanicID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign mechanic")
			}
			if added {
				messages = append(messages, fmt.Sprintf("Successfully added item to the mechanic id: %d", raw))
			} else {
				messages = append(messages, fmt.Sprintf("Details is %d already included in this service_tickets.", raw))
			}
		}

		for _, raw := range input.RemoveMechanicIDs {
			mechanicID, found, err := lookupMechanic(ctx, mechanicRepo, raw)
			if err != nil {
				return err
			}
			if !found {
				messages = append(messages, fmt.Sprintf("%d does not exist.", raw))
				continue
			}
			removed, err := repo.DetachMechanic(ctx, id, mechanicID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove mechanic")
			}
			if removed {
				messages = append(messages, fmt.Sprintf("Succefully removed mechanic id: %d", raw))
			} else {
				messages = append(messages, fmt.Sprintf("Invalid %d is not attached to this service ticket.", raw))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ticket, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EditResult{Messages: messages, Ticket: ticket}, nil
}

func (m *manager) Delete(ctx context.Context, id uint) error {
	return m.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.Lock(ctx, id); err != nil {
			return ticketNotFoundOr(err, msgDeleteNotFound, http.StatusBadRequest)
		}
		deleted, err := repo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete service ticket")
		}
		if !deleted {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrTicketNotFound, msgDeleteNotFound).WithStatus(http.StatusBadRequest)
		}
		return nil
	})
}

func (m *manager) AssignMechanic(ctx context.Context, ticketID, mechanicID uint) error {
	return m.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := ensurePair(ctx, tx, repo, ticketID, mechanicID); err != nil {
			return err
		}
		added, err := repo.AttachMechanic(ctx, ticketID, mechanicID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign mechanic")
		}
		if !added {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrAlreadyAssigned, msgAlreadyAssigned)
		}
		return nil
	})
}

func (m *manager) RemoveMechanic(ctx context.Context, ticketID, mechanicID uint) error {
	return m.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := ensurePair(ctx, tx, repo, ticketID, mechanicID); err != nil {
			return err
		}
		removed, err := repo.DetachMechanic(ctx, ticketID, mechanicID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove mechanic")
		}
		if !removed {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrNotAssigned, msgNotAssigned)
		}
		return nil
	})
}

// DeleteMechanicFromTicket deletes the mechanic record itself, along with all of
// its assignments, provided it is assigned to the ticket.
func (m *manager) DeleteMechanicFromTicket(ctx context.Context, ticketID, mechanicID uint) error {
	return m.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := ensurePair(ctx, tx, repo, ticketID, mechanicID); err != nil {
			return err
		}
		attached, err := repo.IsAttached(ctx, ticketID, mechanicID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check assignment")
		}
		if !attached {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrNotAssigned, msgNotAssigned)
		}
		if err := mechanics.NewRepository(tx).Delete(ctx, mechanicID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete mechanic")
		}
		return nil
	})
}

// AddPart adds quantity units of an inventory part to the ticket. Repeated calls
// for the same part accumulate.
func (m *manager) AddPart(ctx context.Context, ticketID uint, input AddPartInput) (*AddPartResult, error) {
	if input.InventoryID.Empty() || input.Quantity.Empty() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrMissingFields, msgPartsMissing)
	}
	quantity, ok := parseWhole(input.Quantity.Value)
	if !ok {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, msgQuantityNotInt)
	}
	if quantity <= 0 || quantity > MaxPartQuantity {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, msgQuantityPositive)
	}
	inventoryRef, ok := parseWhole(input.InventoryID.Value)
	if !ok || inventoryRef <= 0 {
		return nil, invalidPartTarget(ErrInvalidReference)
	}
	inventoryID := uint(inventoryRef)

	var total int
	err := m.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.Lock(ctx, ticketID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidPartTarget(ErrTicketNotFound)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service ticket")
		}
		if _, err := inventories.NewRepository(tx).FindByID(ctx, inventoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidPartTarget(inventories.ErrInventoryNotFound)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory")
		}

		stored, ok, err := repo.UpsertPart(ctx, ticketID, inventoryID, int(quantity))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add part to service ticket")
		}
		if !ok {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, msgQuantityTooLarge).
				WithDetails(map[string]any{"max_quantity": MaxPartQuantity})
		}
		total = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &AddPartResult{ServiceTicketID: ticketID, InventoryID: inventoryID, Quantity: total}, nil
}

func (m *manager) attachMechanics(ctx context.Context, tickets []*models.ServiceTicket) error {
	ids := make([]uint, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}
	byTicket, err := m.repo.MechanicsByTicket(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket mechanics")
	}
	for _, t := range tickets {
		t.Mechanics = byTicket[t.ID]
	}
	return nil
}

func pointersTo(rows []models.ServiceTicket) []*models.ServiceTicket {
	out := make([]*models.ServiceTicket, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

func ensureCustomer(ctx context.Context, tx *gorm.DB, customerID uint) error {
	_, err := customers.NewRepository(tx).FindByID(ctx, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, customers.ErrCustomerNotFound, msgCustomerMissing).
			WithStatus(http.StatusBadRequest)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	return nil
}

// ensurePair locks the ticket and checks that both ends of a single-pair
// operation exist.
func ensurePair(ctx context.Context, tx *gorm.DB, repo *Repository, ticketID, mechanicID uint) error {
	invalid := func(cause error) error {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, msgInvalidPair).WithStatus(http.StatusBadRequest)
	}
	if _, err := repo.Lock(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid(ErrTicketNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service ticket")
	}
	if _, err := mechanics.NewRepository(tx).FindByID(ctx, mechanicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid(mechanics.ErrMechanicNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load mechanic")
	}
	return nil
}

// lookupMechanic resolves a client supplied id. Non-positive ids never match.
func lookupMechanic(ctx context.Context, repo *mechanics.Repository, raw int64) (uint, bool, error) {
	if raw <= 0 {
		return 0, false, nil
	}
	mechanic, err := repo.FindByID(ctx, uint(raw))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load mechanic")
	}
	return mechanic.ID, true, nil
}

func ticketNotFoundOr(err error, message string, status int) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrTicketNotFound, message).WithStatus(status)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service ticket")
}

func invalidPartTarget(cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, msgInvalidPartTarget).WithStatus(http.StatusBadRequest)
}

// parseWhole accepts integer text or a float literal with no fractional part.
func parseWhole(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
