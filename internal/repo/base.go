package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the connection shared by the domain repositories. Repositories
// built from a transaction handle run every query inside that transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Dialect names the underlying driver ("postgres" or "sqlite").
func (b Base) Dialect() string {
	return b.db.Dialector.Name()
}

// CountWhere counts rows of model matching the condition.
func (b Base) CountWhere(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var count int64
	err := b.DB(ctx).Model(model).Where(query, args...).Count(&count).Error
	return count, err
}
