package repo

import (
	"context"
	"testing"

	"github.com/angelmondragon/mechanicshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
)

type ctxKey struct{}

func TestBaseDB_BindsContext(t *testing.T) {
	conn := dbtest.NewSQLite(t).DB()
	base := NewBase(conn)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)
	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}

	if base.DB(nil) != conn {
		t.Fatalf("expected nil context to return raw connection")
	}
	if base.Dialect() != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %q", base.Dialect())
	}
}

func TestBaseCountWhere(t *testing.T) {
	conn := dbtest.NewSQLite(t).DB()
	base := NewBase(conn)
	ctx := context.Background()

	for _, name := range []string{"Brake pad", "Rotor", "Brake fluid"} {
		if err := conn.Create(&models.Inventory{Name: name}).Error; err != nil {
			t.Fatalf("seed inventory: %v", err)
		}
	}

	count, err := base.CountWhere(ctx, &models.Inventory{}, "name LIKE ?", "Brake%")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}
