package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable monetary snapshot taken at checkout plus a mutable
// lifecycle status. Totals are computed by the client and stored as-is;
// they are never recomputed after creation, so later menu price changes
// cannot alter order history.
type Order struct {
	ID        int64
	User      *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Snapshot totals. Subtotal, tax and total are stored in minor units;
	// the discount is stored in major units with two decimal places. The
	// asymmetry is inherited from the stored data and must be preserved.
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
	DiscountEGP   decimal.Decimal

	PromoCode *PromoCode

	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	CustomerCity    string
	PaymentMethod   string
	Notes           string

	Items []OrderItem
}

// OrderItem is a denormalized snapshot of a menu item at order time. It
// exists only as a child of one order and is deleted with it.
type OrderItem struct {
	ID             int64
	OrderID        int64
	MenuItemName   string
	UnitPriceCents int64
	Quantity       int
}

// OrderStatusEvent is one append-only audit record of a status transition.
// Created exactly once per effective transition, never mutated or deleted.
type OrderStatusEvent struct {
	ID         int64
	OrderID    int64
	FromStatus Status
	ToStatus   Status
	ChangedBy  *string
	ChangedAt  time.Time
	Note       string
}

var (
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNegativeAmount  = errors.New("amount must be zero or positive")
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrEmptyItemName   = errors.New("item name is required")
)

// OrderDraft carries the client-supplied checkout payload into the domain.
// Monetary amounts are the client-computed decimals, not yet converted to
// storage representation.
type OrderDraft struct {
	User   *string
	Status Status

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

	Items []OrderItemDraft
}

type OrderItemDraft struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// NewOrder validates a draft and converts it into a persisted-shape order,
// snapshotting all monetary amounts into their storage representation.
func NewOrder(draft OrderDraft, now time.Time) (*Order, error) {
	for _, amount := range []decimal.Decimal{draft.Subtotal, draft.Tax, draft.Discount, draft.Total} {
		if amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
	}

	if len(draft.Items) == 0 {
		return nil, ErrNoItems
	}

	status := draft.Status
	if status == "" {
		status = StatusRequested
	}

	order := &Order{
		User:            draft.User,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
		SubtotalCents:   ToCents(draft.Subtotal),
		TaxCents:        ToCents(draft.Tax),
		TotalCents:      ToCents(draft.Total),
		DiscountEGP:     QuantizeMajor(draft.Discount),
		CustomerName:    draft.CustomerName,
		CustomerPhone:   draft.CustomerPhone,
		CustomerEmail:   draft.CustomerEmail,
		CustomerAddress: draft.CustomerAddress,
		CustomerCity:    draft.CustomerCity,
		PaymentMethod:   draft.PaymentMethod,
		Notes:           draft.Notes,
	}

	for _, item := range draft.Items {
		if item.Name == "" {
			return nil, ErrEmptyItemName
		}
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return nil, ErrNegativeAmount
		}
		order.Items = append(order.Items, OrderItem{
			MenuItemName:   item.Name,
			UnitPriceCents: ToCents(item.Price),
			Quantity:       item.Quantity,
		})
	}

	return order, nil
}

// Transition moves the order to a recognized status. A no-op change (same
// status) returns nil: the caller persists nothing and appends no audit
// event. An effective change updates the status and timestamp and returns
// the event to append.
func (o *Order) Transition(to Status, changedBy *string, note string, now time.Time) *OrderStatusEvent {
	if to == o.Status {
		return nil
	}

	event := &OrderStatusEvent{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   to,
		ChangedBy:  changedBy,
		ChangedAt:  now,
		Note:       note,
	}

	o.Status = to
	o.UpdatedAt = now

	return event
}
