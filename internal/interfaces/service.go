package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/greyden/greyden/internal/domain"
)

// Service interfaces (business logic) and their command DTOs.

type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error)
	ListOrders(ctx context.Context, query ListOrdersQuery) ([]*domain.Order, error)
	GetHistory(ctx context.Context, orderID int64) ([]*domain.OrderStatusEvent, error)
	GetProfile(ctx context.Context, user string) (*domain.CustomerProfile, error)
}

type MenuService interface {
	GetMenu(ctx context.Context) ([]*domain.MenuCategory, error)
	UpdateItem(ctx context.Context, cmd UpdateMenuItemCommand) (*domain.MenuItem, error)
	Import(ctx context.Context, path string, wipe bool) (MenuImportResult, error)
}

type PromoService interface {
	ListCodes(ctx context.Context) ([]*domain.PromoCode, error)
	CreateCode(ctx context.Context, cmd CreatePromoCodeCommand) (*domain.PromoCode, error)
	GetCode(ctx context.Context, id int64) (*domain.PromoCode, error)
	UpdateCode(ctx context.Context, id int64, cmd UpdatePromoCodeCommand) (*domain.PromoCode, error)
}

// CreateOrderCommand carries a validated checkout request. Monetary amounts
// stay decimal until the domain snapshots them into storage form.
type CreateOrderCommand struct {
	User      *string
	Status    string
	PromoCode string

	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal

	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	CustomerCity    string
	PaymentMethod   string
	Notes           string

	Items []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type UpdateOrderStatusCommand struct {
	OrderID   int64
	Status    string
	ChangedBy *string
	Note      string
}

// ListOrdersQuery distinguishes an absent status filter (default: active
// orders only) from a present one (explicit, possibly empty after parsing).
type ListOrdersQuery struct {
	StatusFilter *string
}

// UpdateMenuItemCommand is a partial update; nil fields are left untouched.
type UpdateMenuItemCommand struct {
	ItemID      int64
	Name        *string
	Description *string
	Price       *decimal.Decimal
	IsAvailable *bool
	SortOrder   *int
}

type CreatePromoCodeCommand struct {
	Code               string
	Description        string
	DiscountPercentage int
	IsValid            bool
	MaxUses            *int
	ExpiresAt          *time.Time
}

// UpdatePromoCodeCommand is a partial update; nil fields are left untouched.
type UpdatePromoCodeCommand struct {
	Code               *string
	Description        *string
	DiscountPercentage *int
	IsValid            *bool
	MaxUses            *int
	TimesRedeemed      *int
	ExpiresAt          *time.Time
}

// Menu import plan, built by the menu service from a menu.json document and
// applied transactionally by the repository.

type MenuImportCategory struct {
	Name      string
	SortOrder int
	Items     []MenuImportItem
}

type MenuImportItem struct {
	Name        string
	Description string
	PriceEGP    int64
	Sizes       []domain.MenuSize
	SortOrder   int
}

type MenuImportResult struct {
	CategoriesCreated int
	CategoriesUpdated int
	ItemsCreated      int
	ItemsUpdated      int
	ItemsSkipped      int
}
