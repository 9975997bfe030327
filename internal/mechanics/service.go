package mechanics

import (
	"context"
	"errors"
	"sort"

	"github.com/angelmondragon/mechanicshop-backend/pkg/db"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrMechanicNotFound = errors.New("mechanic not found")
	ErrEmailTaken       = errors.New("email already registered")
)

const msgEmailTaken = "Email already associated with an account."

// Service defines mechanic management plus the ranking and search helpers.
type Service interface {
	Create(ctx context.Context, input CreateMechanicInput) (*models.Mechanic, error)
	Get(ctx context.Context, id uint) (*models.Mechanic, error)
	List(ctx context.Context) ([]models.Mechanic, error)
	Update(ctx context.Context, id uint, input UpdateMechanicInput) (*models.Mechanic, error)
	Delete(ctx context.Context, id uint) error
	Popular(ctx context.Context) ([]models.Mechanic, error)
	Search(ctx context.Context, name string) ([]models.Mechanic, error)
}

type service struct {
	db   *db.Client
	repo *Repository
}

// NewService wires mechanic dependencies.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	return &service{db: client, repo: NewRepository(client.DB())}, nil
}

func (s *service) Create(ctx context.Context, input CreateMechanicInput) (*models.Mechanic, error) {
	mechanic := input.ToModel()
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := ensureEmailFree(ctx, repo, mechanic.Email, 0); err != nil {
			return err
		}
		if err := repo.Create(ctx, mechanic); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrEmailTaken, msgEmailTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create mechanic")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mechanic, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Mechanic, error) {
	mechanic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Mechanic id is not found.")
	}
	return mechanic, nil
}

func (s *service) List(ctx context.Context) ([]models.Mechanic, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list mechanics")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateMechanicInput) (*models.Mechanic, error) {
	var updated *models.Mechanic
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		mechanic, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Mechanic id is not found.")
		}

		previousEmail := mechanic.Email
		input.Apply(mechanic)
		if mechanic.Email != previousEmail {
			if err := ensureEmailFree(ctx, repo, mechanic.Email, mechanic.ID); err != nil {
				return err
			}
		}

		if err := repo.Save(ctx, mechanic); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrEmailTaken, msgEmailTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update mechanic")
		}
		updated = mechanic
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return notFoundOr(err, "Mechanic not found.")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete mechanic")
		}
		return nil
	})
}

// Popular ranks every mechanic by the number of tickets they are assigned to,
// busiest first. Equal counts keep id order.
func (s *service) Popular(ctx context.Context) ([]models.Mechanic, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list mechanics")
	}
	counts, err := s.repo.TicketCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count mechanic tickets")
	}
	RankByTicketCount(rows, counts)
	return rows, nil
}

// RankByTicketCount stable-sorts mechanics by descending ticket count.
func RankByTicketCount(rows []models.Mechanic, counts map[uint]int64) {
	sort.SliceStable(rows, func(i, j int) bool {
		return counts[rows[i].ID] > counts[rows[j].ID]
	})
}

// Search returns mechanics whose name contains name. An empty name matches everyone.
func (s *service) Search(ctx context.Context, name string) ([]models.Mechanic, error) {
	if name == "" {
		return s.List(ctx)
	}
	rows, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search mechanics")
	}
	return rows, nil
}

func ensureEmailFree(ctx context.Context, repo *Repository, email string, selfID uint) error {
	existing, err := repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check mechanic email")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrEmailTaken, msgEmailTaken)
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrMechanicNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load mechanic")
}
