package delete_date_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidExceptionID = "некорректный ID исключения"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBusinessNotFound   = "бизнес не найден"
	msgExceptionNotFound  = "исключение расписания не найдено"
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

// Handle DELETE /api/v1/businesses/{businessId}/exceptions/{exceptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{id} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	exceptionID, err := strconv.ParseInt(vars["exceptionId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{id} - Invalid exception ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.RemoveException(r.Context(), businessID, exceptionID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{id} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{id} - Exception not found: exception_id=%d", exceptionID)
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{id} - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/exceptions/{id} - Failed to delete exception: exception_id=%d, error=%v",
				exceptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/exceptions/{id} - Exception deleted: business_id=%d, exception_id=%d",
		businessID, exceptionID)
	w.WriteHeader(http.StatusNoContent)
}
