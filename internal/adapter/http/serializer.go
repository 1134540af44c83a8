package http

import (
	"time"

	"github.com/greyden/greyden/internal/domain"
)

// Order responses expose both the raw stored value and a derived major-unit
// value for every monetary field. The conversions live in the domain so the
// two representations cannot drift.

type OrderResponse struct {
	ID            int64     `json:"id"`
	User          *string   `json:"user"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	SubtotalCents int64   `json:"subtotal_cents"`
	TaxCents      int64   `json:"tax_cents"`
	TotalCents    int64   `json:"total_cents"`
	SubtotalEGP   float64 `json:"subtotal_egp"`
	TaxEGP        float64 `json:"tax_egp"`
	TotalEGP      float64 `json:"total_egp"`
	DiscountEGP   float64 `json:"discount_egp"`

	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`
	CustomerCity    string `json:"customer_city"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`

	PromoCode *PromoCodeResponse  `json:"promo_code"`
	Items     []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ID             int64   `json:"id"`
	MenuItemName   string  `json:"menu_item_name"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	PriceEGP       float64 `json:"price_egp"`
	Quantity       int     `json:"quantity"`
}

type PromoCodeResponse struct {
	ID                 int64      `json:"id"`
	Code               string     `json:"code"`
	Description        string     `json:"description"`
	DiscountPercentage int        `json:"discount_percentage"`
	IsValid            bool       `json:"is_valid"`
	MaxUses            *int       `json:"max_uses"`
	TimesRedeemed      int        `json:"times_redeemed"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

type StatusEventResponse struct {
	ID         int64     `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  *string   `json:"changed_by"`
	ChangedAt  time.Time `json:"changed_at"`
	Note       string    `json:"note"`
}

type MenuCategoryResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	SortOrder int                `json:"sort_order"`
	Items     []MenuItemResponse `json:"items"`
}

type MenuItemResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PriceEGP    int64             `json:"price_egp"`
	Sizes       []domain.MenuSize `json:"sizes"`
	IsAvailable bool              `json:"is_available"`
	SortOrder   int               `json:"sort_order"`
}

type CustomerProfileResponse struct {
	User               string          `json:"user"`
	CurrentOrder       *OrderResponse  `json:"current_order"`
	CurrentOrderStatus string          `json:"current_order_status"`
	OrderHistory       []OrderResponse `json:"order_history"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		User:            order.User,
		Status:          string(order.Status),
		StatusDisplay:   order.Status.Display(),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		SubtotalCents:   order.SubtotalCents,
		TaxCents:        order.TaxCents,
		TotalCents:      order.TotalCents,
		SubtotalEGP:     domain.CentsToMajor(order.SubtotalCents),
		TaxEGP:          domain.CentsToMajor(order.TaxCents),
		TotalEGP:        domain.CentsToMajor(order.TotalCents),
		DiscountEGP:     order.DiscountEGP.Round(2).InexactFloat64(),
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerEmail:   order.CustomerEmail,
		CustomerAddress: order.CustomerAddress,
		CustomerCity:    order.CustomerCity,
		PaymentMethod:   order.PaymentMethod,
		Notes:           order.Notes,
		Items:           []OrderItemResponse{},
	}

	if order.PromoCode != nil {
		promo := toPromoResponse(order.PromoCode)
		resp.PromoCode = &promo
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:             item.ID,
			MenuItemName:   item.MenuItemName,
			UnitPriceCents: item.UnitPriceCents,
			PriceEGP:       domain.CentsToMajor(item.UnitPriceCents),
			Quantity:       item.Quantity,
		})
	}

	return resp
}

func toPromoResponse(promo *domain.PromoCode) PromoCodeResponse {
	return PromoCodeResponse{
		ID:                 promo.ID,
		Code:               promo.Code,
		Description:        promo.Description,
		DiscountPercentage: promo.DiscountPercentage,
		IsValid:            promo.IsValid,
		MaxUses:            promo.MaxUses,
		TimesRedeemed:      promo.TimesRedeemed,
		ExpiresAt:          promo.ExpiresAt,
	}
}

func toStatusEventResponse(ev *domain.OrderStatusEvent) StatusEventResponse {
	return StatusEventResponse{
		ID:         ev.ID,
		FromStatus: string(ev.FromStatus),
		ToStatus:   string(ev.ToStatus),
		ChangedBy:  ev.ChangedBy,
		ChangedAt:  ev.ChangedAt,
		Note:       ev.Note,
	}
}

func toMenuCategoryResponse(cat *domain.MenuCategory) MenuCategoryResponse {
	resp := MenuCategoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		SortOrder: cat.SortOrder,
		Items:     []MenuItemResponse{},
	}
	for _, item := range cat.Items {
		resp.Items = append(resp.Items, toMenuItemResponse(&item))
	}
	return resp
}

func toMenuItemResponse(item *domain.MenuItem) MenuItemResponse {
	sizes := item.Sizes
	if sizes == nil {
		sizes = []domain.MenuSize{}
	}
	return MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		PriceEGP:    item.PriceEGP,
		Sizes:       sizes,
		IsAvailable: item.IsAvailable,
		SortOrder:   item.SortOrder,
	}
}

func toProfileResponse(profile *domain.CustomerProfile) CustomerProfileResponse {
	resp := CustomerProfileResponse{
		User:               profile.User,
		CurrentOrderStatus: string(profile.CurrentOrderStatus),
		OrderHistory:       []OrderResponse{},
	}
	if profile.CurrentOrder != nil {
		current := toOrderResponse(profile.CurrentOrder)
		resp.CurrentOrder = &current
	}
	for _, order := range profile.OrderHistory {
		resp.OrderHistory = append(resp.OrderHistory, toOrderResponse(order))
	}
	return resp
}
