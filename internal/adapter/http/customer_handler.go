package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type CustomerHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewCustomerHandler(service interfaces.OrderService, lgr logger.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, logger: lgr}
}

// HandleCustomers routes GET /api/customers/{user}/profile/.
func (h *CustomerHandler) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	if len(parts) != 4 || parts[3] != "profile" {
		respondError(w, "Not found", http.StatusNotFound, nil)
		return
	}
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), parts[2])
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			respondError(w, "Customer profile not found", http.StatusNotFound, nil)
			return
		}
		h.logger.Error("profile_fetch_failed", "Failed to load customer profile", r.Header.Get("X-Request-ID"), nil, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}
