// Package handler provides HTTP handlers for the CellMesh API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cellmesh/cellmesh/internal/api/models"
	"github.com/cellmesh/cellmesh/internal/api/response"
	"github.com/cellmesh/cellmesh/internal/calc"
	"github.com/cellmesh/cellmesh/internal/provider/resilience"
)

// CalculateHandler handles the deployment calculation endpoint.
type CalculateHandler struct {
	service *calc.Service
	logger  zerolog.Logger
}

// NewCalculateHandler creates a new CalculateHandler.
func NewCalculateHandler(service *calc.Service, logger zerolog.Logger) *CalculateHandler {
	return &CalculateHandler{
		service: service,
		logger:  logger,
	}
}

// Calculate handles POST /api/v1/calculate - compute deployment metrics for
// a set of districts. Schema-shape failures come back as 400 with field
// errors; domain failures from the engine come back as 400 with the
// engine's message; an open lookup circuit breaker is a 503; anything else
// (external lookup transport failures included) is a 500.
func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input models.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrs := input.Validate(); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "request failed validation", fieldErrs)
		return
	}

	result, err := h.service.Calculate(r.Context(), input.ToDomain())
	if err != nil {
		if calc.IsDomainError(err) {
			response.CalculationError(w, r, err.Error())
			return
		}
		if errors.Is(err, resilience.ErrCircuitOpen) {
			h.logger.Warn().Err(err).Msg("handover lookup circuit open")
			response.ServiceUnavailable(w, r, "handover lookup temporarily unavailable")
			return
		}
		h.logger.Error().Err(err).Msg("calculation failed")
		response.InternalError(w, r, "calculation could not be completed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewCalculationResponse(result))
}
