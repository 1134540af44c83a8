package interfaces

import (
	"context"

	"github.com/greyden/greyden/internal/domain"
)

// Repository interfaces implemented by the postgres adapter.

type OrderRepository interface {
	// Create persists the order and its item snapshots in one transaction.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// List returns orders matching any of the given statuses, newest first,
	// with items and promo code embedded. An empty filter yields no rows.
	List(ctx context.Context, statuses []domain.Status) ([]*domain.Order, error)
	// UpdateStatus persists the order's new status and timestamp and appends
	// the audit event in the same transaction.
	UpdateStatus(ctx context.Context, order *domain.Order, event *domain.OrderStatusEvent) error
	ListEvents(ctx context.Context, orderID int64) ([]*domain.OrderStatusEvent, error)
}

type MenuRepository interface {
	// ListCategories returns the catalog ordered by (sort_order, name) with
	// items embedded in the same order.
	ListCategories(ctx context.Context) ([]*domain.MenuCategory, error)
	FindItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, item *domain.MenuItem) error
	// ApplyImport upserts the whole plan in one transaction, optionally
	// wiping the existing catalog first.
	ApplyImport(ctx context.Context, plan []MenuImportCategory, wipe bool) (MenuImportResult, error)
}

type PromoRepository interface {
	List(ctx context.Context) ([]*domain.PromoCode, error)
	FindByID(ctx context.Context, id int64) (*domain.PromoCode, error)
	// FindByCode matches case-insensitively.
	FindByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	Create(ctx context.Context, promo *domain.PromoCode) error
	Update(ctx context.Context, promo *domain.PromoCode) error
}

type CustomerRepository interface {
	// RecordOrder upserts the user's profile, marks the order as current and
	// appends it to the order history.
	RecordOrder(ctx context.Context, user string, order *domain.Order) error
	FindProfile(ctx context.Context, user string) (*domain.CustomerProfile, error)
}
