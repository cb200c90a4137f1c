package create_date_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "изменять расписание может только владелец бизнеса"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/exceptions - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /businesses/{id}/exceptions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AddExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID

	result, err := h.service.AddException(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/exceptions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/exceptions - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /businesses/{id}/exceptions - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /businesses/{id}/exceptions - Failed to create exception: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/exceptions - Exception created: business_id=%d, exception_id=%d, conflicts=%d",
		businessID, result.Exception.ID, result.ConflictingBookings)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
