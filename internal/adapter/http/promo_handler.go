package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type PromoHandler struct {
	service interfaces.PromoService
	logger  logger.Logger
}

func NewPromoHandler(service interfaces.PromoService, lgr logger.Logger) *PromoHandler {
	return &PromoHandler{service: service, logger: lgr}
}

type CreatePromoCodeRequest struct {
	Code               string     `json:"code"`
	Description        string     `json:"description"`
	DiscountPercentage int        `json:"discount_percentage"`
	IsValid            *bool      `json:"is_valid"`
	MaxUses            *int       `json:"max_uses"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

type UpdatePromoCodeRequest struct {
	Code               *string    `json:"code"`
	Description        *string    `json:"description"`
	DiscountPercentage *int       `json:"discount_percentage"`
	IsValid            *bool      `json:"is_valid"`
	MaxUses            *int       `json:"max_uses"`
	TimesRedeemed      *int       `json:"times_redeemed"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

// HandlePromoCodes routes /api/promo-codes/ and /api/promo-codes/{id}/.
func (h *PromoHandler) HandlePromoCodes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2:
		switch r.Method {
		case http.MethodGet:
			h.listCodes(w, r)
		case http.MethodPost:
			h.createCode(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		}

	case len(parts) == 3:
		promoID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			respondError(w, "Invalid promo code id", http.StatusBadRequest, nil)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getCode(w, r, promoID)
		case http.MethodPatch, http.MethodPut:
			h.updateCode(w, r, promoID)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		}

	default:
		respondError(w, "Not found", http.StatusNotFound, nil)
	}
}

func (h *PromoHandler) listCodes(w http.ResponseWriter, r *http.Request) {
	promos, err := h.service.ListCodes(r.Context())
	if err != nil {
		h.logger.Error("promo_list_failed", "Failed to list promo codes", r.Header.Get("X-Request-ID"), nil, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	resp := make([]PromoCodeResponse, 0, len(promos))
	for _, promo := range promos {
		resp = append(resp, toPromoResponse(promo))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *PromoHandler) createCode(w http.ResponseWriter, r *http.Request) {
	var req CreatePromoCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	isValid := true
	if req.IsValid != nil {
		isValid = *req.IsValid
	}

	promo, err := h.service.CreateCode(r.Context(), interfaces.CreatePromoCodeCommand{
		Code:               strings.TrimSpace(req.Code),
		Description:        strings.TrimSpace(req.Description),
		DiscountPercentage: req.DiscountPercentage,
		IsValid:            isValid,
		MaxUses:            req.MaxUses,
		ExpiresAt:          req.ExpiresAt,
	})
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	respondJSON(w, http.StatusCreated, toPromoResponse(promo))
}

func (h *PromoHandler) getCode(w http.ResponseWriter, r *http.Request, promoID int64) {
	promo, err := h.service.GetCode(r.Context(), promoID)
	if err != nil {
		if errors.Is(err, domain.ErrPromoCodeNotFound) {
			respondError(w, "Promo code not found", http.StatusNotFound, nil)
			return
		}
		h.logger.Error("promo_fetch_failed", "Failed to load promo code", r.Header.Get("X-Request-ID"), nil, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	respondJSON(w, http.StatusOK, toPromoResponse(promo))
}

func (h *PromoHandler) updateCode(w http.ResponseWriter, r *http.Request, promoID int64) {
	var req UpdatePromoCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	promo, err := h.service.UpdateCode(r.Context(), promoID, interfaces.UpdatePromoCodeCommand{
		Code:               req.Code,
		Description:        req.Description,
		DiscountPercentage: req.DiscountPercentage,
		IsValid:            req.IsValid,
		MaxUses:            req.MaxUses,
		TimesRedeemed:      req.TimesRedeemed,
		ExpiresAt:          req.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPromoCodeNotFound) {
			respondError(w, "Promo code not found", http.StatusNotFound, nil)
			return
		}
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	respondJSON(w, http.StatusOK, toPromoResponse(promo))
}
