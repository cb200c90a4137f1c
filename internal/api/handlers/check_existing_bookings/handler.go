package check_existing_bookings

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
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidDayOfWeek  = "некорректный день недели, ожидается число от 0 до 6"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/businesses/{businessId}/bookings/count
// Query params: date (YYYY-MM-DD) или dayOfWeek (0-6), ровно один из них
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings/count - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/bookings/count - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.CheckExistingRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	query := r.URL.Query()
	if date := query.Get("date"); date != "" {
		req.Date = &date
	}
	if dowStr := query.Get("dayOfWeek"); dowStr != "" {
		dow, err := strconv.Atoi(dowStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/bookings/count - Invalid day of week: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
			return
		}
		req.DayOfWeek = &dow
	}

	result, err := h.service.CheckExistingBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/bookings/count - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/bookings/count - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/bookings/count - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /businesses/{id}/bookings/count - Failed to count bookings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/bookings/count - Counted: business_id=%d, count=%d", businessID, result.Count)
	handlers.RespondJSON(w, http.StatusOK, result)
}
