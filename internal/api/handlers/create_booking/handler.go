package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-MarketplaceService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgSlotLocked          = "этот слот прямо сейчас бронирует другой пользователь, попробуйте еще раз"
	msgBusinessNotFound    = "бизнес не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgCashNotAccepted     = "бизнес не принимает оплату наличными"
	msgStartInPast         = "время начала бронирования уже прошло"
	msgInsufficientBalance = "бизнес временно не принимает бронирования с оплатой наличными"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, business_id=%d", userID, req.BusinessID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrSlotLocked):
			h.logger.Warn("POST /bookings - Slot locked: user_id=%d, business_id=%d", userID, req.BusinessID)
			handlers.RespondConflict(w, msgSlotLocked)

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrCashNotAccepted):
			h.logger.Warn("POST /bookings - Cash not accepted: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgCashNotAccepted)

		case errors.Is(err, createBooking.ErrStartInPast):
			h.logger.Warn("POST /bookings - Start in past: user_id=%d, start=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrInsufficientBalance):
			h.logger.Warn("POST /bookings - Insufficient wallet balance: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInsufficientBalance)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, business_id=%d, error=%v",
				userID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, business_id=%d, status=%s",
		result.ID, userID, req.BusinessID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
