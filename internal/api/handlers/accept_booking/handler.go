package accept_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "подтвердить бронирование может только владелец бизнеса"
	msgCannotAccept     = "бронирование не ожидает подтверждения"
	msgStatusChanged    = "статус бронирования изменился, обновите данные"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/accept - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/accept - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.Accept(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrBusinessNotFound):
			h.logger.Warn("PATCH /bookings/{id}/accept - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/accept - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/accept - Cannot accept: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgCannotAccept)

		case errors.Is(err, bookings.ErrStatusChanged):
			h.logger.Warn("PATCH /bookings/{id}/accept - Status changed concurrently: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStatusChanged)

		default:
			h.logger.Error("PATCH /bookings/{id}/accept - Failed to accept booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/accept - Booking accepted successfully: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
