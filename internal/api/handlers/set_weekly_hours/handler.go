package set_weekly_hours

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
	msgInvalidDayOfWeek   = "некорректный день недели, ожидается число от 0 до 6"
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

// Handle PUT /api/v1/businesses/{businessId}/weekly-hours/{dayOfWeek}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/weekly-hours/{day} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	dayOfWeek, err := strconv.Atoi(vars["dayOfWeek"])
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/weekly-hours/{day} - Invalid day of week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/weekly-hours/{day} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.SetWeeklyHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/weekly-hours/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID
	req.DayOfWeek = dayOfWeek

	result, err := h.service.SetWeeklyHours(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/weekly-hours/{day} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/weekly-hours/{day} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/weekly-hours/{day} - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /businesses/{id}/weekly-hours/{day} - Failed to set hours: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/weekly-hours/{day} - Hours saved: business_id=%d, day=%d", businessID, dayOfWeek)
	handlers.RespondJSON(w, http.StatusOK, result)
}
