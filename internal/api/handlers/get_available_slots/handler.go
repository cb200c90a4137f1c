package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-MarketplaceService/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingServiceID  = "ID услуги обязателен"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgInvalidDuration   = "у услуги некорректная длительность"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service not found: business_id=%d, service_id=%d",
				businessID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDuration):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid service duration: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /businesses/{id}/available-slots - Failed to get slots: business_id=%d, service_id=%d, error=%v",
				businessID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /businesses/{id}/available-slots - Slots retrieved successfully: business_id=%d, service_id=%d, slots_count=%d",
		businessID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
