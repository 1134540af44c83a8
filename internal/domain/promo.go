package domain

import (
	"errors"
	"time"
)

// PromoCode is a staff-managed discount code. Orders keep a nullable link
// to the code they were created with; an unknown code at checkout is
// silently ignored rather than rejected.
type PromoCode struct {
	ID                 int64
	Code               string
	Description        string
	DiscountPercentage int
	IsValid            bool
	MaxUses            *int
	TimesRedeemed      int
	ExpiresAt          *time.Time
}

var ErrPromoCodeNotFound = errors.New("promo code not found")
