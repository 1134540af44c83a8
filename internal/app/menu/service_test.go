package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type nopLogger struct{}

func (nopLogger) Info(action, message, requestID string, details map[string]interface{})             {}
func (nopLogger) Debug(action, message, requestID string, details map[string]interface{})            {}
func (nopLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {}

type fakeMenuRepo struct {
	items       map[int64]*domain.MenuItem
	updated     []*domain.MenuItem
	lastPlan    []interfaces.MenuImportCategory
	lastWipe    bool
	applyResult interfaces.MenuImportResult
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: make(map[int64]*domain.MenuItem)}
}

func (r *fakeMenuRepo) ListCategories(ctx context.Context) ([]*domain.MenuCategory, error) {
	return nil, nil
}

func (r *fakeMenuRepo) FindItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeMenuRepo) UpdateItem(ctx context.Context, item *domain.MenuItem) error {
	r.items[item.ID] = item
	r.updated = append(r.updated, item)
	return nil
}

func (r *fakeMenuRepo) ApplyImport(ctx context.Context, plan []interfaces.MenuImportCategory, wipe bool) (interfaces.MenuImportResult, error) {
	r.lastPlan = plan
	r.lastWipe = wipe
	return r.applyResult, nil
}

func decPtr(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

func TestUpdateItemPartialPatch(t *testing.T) {
	repo := newFakeMenuRepo()
	repo.items[5] = &domain.MenuItem{ID: 5, Name: "Latte", Description: "classic", PriceEGP: 45, IsAvailable: true, SortOrder: 2}
	svc := NewService(repo, nopLogger{})

	name := "Iced Latte"
	item, err := svc.UpdateItem(context.Background(), interfaces.UpdateMenuItemCommand{
		ItemID: 5,
		Name:   &name,
		Price:  decPtr("52.4"),
	})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}

	if item.Name != "Iced Latte" {
		t.Errorf("name = %q, want Iced Latte", item.Name)
	}
	if item.PriceEGP != 52 {
		t.Errorf("price = %d, want 52 (whole units)", item.PriceEGP)
	}
	// untouched fields survive
	if item.Description != "classic" || !item.IsAvailable || item.SortOrder != 2 {
		t.Errorf("untouched fields mutated: %+v", item)
	}
	if len(repo.updated) != 1 {
		t.Errorf("updates persisted = %d, want 1", len(repo.updated))
	}
}

func TestUpdateItemRejectsNegativePrice(t *testing.T) {
	repo := newFakeMenuRepo()
	repo.items[5] = &domain.MenuItem{ID: 5, Name: "Latte", PriceEGP: 45}
	svc := NewService(repo, nopLogger{})

	_, err := svc.UpdateItem(context.Background(), interfaces.UpdateMenuItemCommand{
		ItemID: 5,
		Price:  decPtr("-1"),
	})
	if !errors.Is(err, domain.ErrNegativePrice) {
		t.Fatalf("UpdateItem() error = %v, want ErrNegativePrice", err)
	}
	if len(repo.updated) != 0 {
		t.Errorf("updates persisted = %d, want 0", len(repo.updated))
	}
	if repo.items[5].PriceEGP != 45 {
		t.Errorf("stored price mutated to %d", repo.items[5].PriceEGP)
	}
}

func TestUpdateItemMissing(t *testing.T) {
	svc := NewService(newFakeMenuRepo(), nopLogger{})

	if _, err := svc.UpdateItem(context.Background(), interfaces.UpdateMenuItemCommand{ItemID: 404}); !errors.Is(err, domain.ErrMenuItemNotFound) {
		t.Fatalf("UpdateItem() error = %v, want ErrMenuItemNotFound", err)
	}
}
