package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, lgr logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: lgr}
}

type CreateOrderRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`
	CustomerCity    string `json:"customer_city"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
	PromoCode       string `json:"promo_code"`
	Status          string `json:"status"`

	Subtotal *decimal.Decimal `json:"subtotal"`
	Tax      *decimal.Decimal `json:"tax"`
	Discount *decimal.Decimal `json:"discount"`
	Total    *decimal.Decimal `json:"total"`

	Items []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ItemID   string           `json:"item_id"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// HandleOrders routes /api/orders/ and its subpaths:
//
//	GET  /api/orders/              order feed, optional ?status= filter
//	POST /api/orders/              checkout
//	PATCH|PUT /api/orders/{id}/status/   status transition
//	GET  /api/orders/{id}/history/       audit trail
func (h *OrderHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	// parts[0] == "api", parts[1] == "orders"
	switch {
	case len(parts) == 2:
		switch r.Method {
		case http.MethodGet:
			h.listOrders(w, r)
		case http.MethodPost:
			h.createOrder(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		}

	case len(parts) == 4 && parts[3] == "status":
		if r.Method != http.MethodPatch && r.Method != http.MethodPut {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
			return
		}
		h.updateStatus(w, r, parts[2])

	case len(parts) == 4 && parts[3] == "history":
		if r.Method != http.MethodGet {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
			return
		}
		h.getHistory(w, r, parts[2])

	default:
		respondError(w, "Not found", http.StatusNotFound, nil)
	}
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Debug("validation_failed", "Order validation failed", r.Header.Get("X-Request-ID"), map[string]interface{}{
			"errors": validationErrors,
		})
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	cmd := interfaces.CreateOrderCommand{
		User:            requestUser(r),
		Status:          strings.TrimSpace(req.Status),
		PromoCode:       strings.TrimSpace(req.PromoCode),
		Subtotal:        *req.Subtotal,
		Tax:             valueOrZero(req.Tax),
		Discount:        valueOrZero(req.Discount),
		Total:           *req.Total,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		CustomerCity:    strings.TrimSpace(req.CustomerCity),
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		Notes:           strings.TrimSpace(req.Notes),
	}
	for _, item := range req.Items {
		quantity := 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		cmd.Items = append(cmd.Items, interfaces.CreateOrderItemCommand{
			Name:     strings.TrimSpace(item.Name),
			Price:    *item.Price,
			Quantity: quantity,
		})
	}

	order, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.respondServiceError(w, r, "order_create_failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	query := interfaces.ListOrdersQuery{}
	if r.URL.Query().Has("status") {
		filter := r.URL.Query().Get("status")
		query.StatusFilter = &filter
	}

	orders, err := h.service.ListOrders(r.Context(), query)
	if err != nil {
		h.respondServiceError(w, r, "order_list_failed", err)
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, rawID string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), interfaces.UpdateOrderStatusCommand{
		OrderID:   orderID,
		Status:    req.Status,
		ChangedBy: requestUser(r),
		Note:      strings.TrimSpace(req.Note),
	})
	if err != nil {
		h.respondServiceError(w, r, "status_update_failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) getHistory(w http.ResponseWriter, r *http.Request, rawID string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	events, err := h.service.GetHistory(r.Context(), orderID)
	if err != nil {
		h.respondServiceError(w, r, "history_fetch_failed", err)
		return
	}

	resp := make([]StatusEventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, toStatusEventResponse(ev))
	}
	respondJSON(w, http.StatusOK, resp)
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errs []ValidationError

	required := []struct {
		field string
		value *decimal.Decimal
	}{
		{"subtotal", req.Subtotal},
		{"total", req.Total},
	}
	for _, f := range required {
		if f.value == nil {
			errs = append(errs, ValidationError{Field: f.field, Message: "this field is required"})
		}
	}

	amounts := []struct {
		field string
		value *decimal.Decimal
	}{
		{"subtotal", req.Subtotal},
		{"tax", req.Tax},
		{"discount", req.Discount},
		{"total", req.Total},
	}
	for _, f := range amounts {
		if f.value != nil && f.value.IsNegative() {
			errs = append(errs, ValidationError{Field: f.field, Message: "amount must be zero or positive"})
		}
	}

	if req.Status != "" {
		if _, err := domain.ParseStatus(req.Status); err != nil {
			errs = append(errs, ValidationError{Field: "status", Message: "invalid order status"})
		}
	}

	if len(req.Items) == 0 {
		errs = append(errs, ValidationError{Field: "items", Message: "order must contain at least 1 item"})
	}

	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, ValidationError{Field: prefix + ".name", Message: "item name is required"})
		}
		if item.Price == nil {
			errs = append(errs, ValidationError{Field: prefix + ".price", Message: "item price is required"})
		} else if item.Price.IsNegative() {
			errs = append(errs, ValidationError{Field: prefix + ".price", Message: "item price must be zero or positive"})
		}
		if item.Quantity != nil && *item.Quantity < 1 {
			errs = append(errs, ValidationError{Field: prefix + ".quantity", Message: "item quantity must be at least 1"})
		}
	}

	return errs
}

func (h *OrderHandler) respondServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	requestID := r.Header.Get("X-Request-ID")

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		respondError(w, "Order not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrProfileNotFound):
		respondError(w, "Customer profile not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrInvalidStatus):
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "status", Message: "invalid order status"},
		})
	case errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyItemName):
		respondError(w, err.Error(), http.StatusBadRequest, nil)
	default:
		h.logger.Error(action, "Request failed", requestID, nil, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
