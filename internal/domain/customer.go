package domain

import "errors"

// CustomerProfile is a per-user denormalized view of current and past
// orders, maintained as a side effect of checkout for authenticated users.
type CustomerProfile struct {
	ID                 int64
	User               string
	CurrentOrder       *Order
	CurrentOrderStatus Status
	OrderHistory       []*Order
}

var ErrProfileNotFound = errors.New("customer profile not found")
