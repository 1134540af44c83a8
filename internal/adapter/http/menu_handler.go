package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type MenuHandler struct {
	service interfaces.MenuService
	logger  logger.Logger
}

func NewMenuHandler(service interfaces.MenuService, lgr logger.Logger) *MenuHandler {
	return &MenuHandler{service: service, logger: lgr}
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	PriceEGP    *decimal.Decimal `json:"price_egp"`
	IsAvailable *bool            `json:"is_available"`
	SortOrder   *int             `json:"sort_order"`
}

// HandleMenu routes /api/menu/ and its subpaths:
//
//	GET   /api/menu/              full catalog, categories with items
//	PATCH /api/menu/items/{id}    partial item update
func (h *MenuHandler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2:
		if r.Method != http.MethodGet {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
			return
		}
		h.getMenu(w, r)

	case len(parts) == 4 && parts[2] == "items":
		if r.Method != http.MethodPatch && r.Method != http.MethodPut {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
			return
		}
		h.updateItem(w, r, parts[3])

	default:
		respondError(w, "Not found", http.StatusNotFound, nil)
	}
}

func (h *MenuHandler) getMenu(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetMenu(r.Context())
	if err != nil {
		h.logger.Error("menu_fetch_failed", "Failed to load menu", r.Header.Get("X-Request-ID"), nil, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	resp := make([]MenuCategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, toMenuCategoryResponse(cat))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) updateItem(w http.ResponseWriter, r *http.Request, rawID string) {
	itemID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respondError(w, "Invalid item id", http.StatusBadRequest, nil)
		return
	}

	var req UpdateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), interfaces.UpdateMenuItemCommand{
		ItemID:      itemID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.PriceEGP,
		IsAvailable: req.IsAvailable,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMenuItemNotFound):
			respondError(w, "Menu item not found", http.StatusNotFound, nil)
		case errors.Is(err, domain.ErrNegativePrice):
			respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
				{Field: "price_egp", Message: "price must be zero or positive"},
			})
		default:
			h.logger.Error("menu_item_update_failed", "Failed to update menu item", r.Header.Get("X-Request-ID"), nil, err)
			respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		}
		return
	}

	respondJSON(w, http.StatusOK, toMenuItemResponse(item))
}
