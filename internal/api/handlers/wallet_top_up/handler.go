package wallet_top_up

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wallet"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wallet/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "зачислять пополнения может только администратор"
	msgInvalidAmount      = "сумма пополнения должна быть положительной"
	msgConcurrentUpdate   = "кошелек изменился параллельно, повторите запрос"
)

type Handler struct {
	service WalletService
	logger  Logger
}

func NewHandler(service WalletService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/wallet/top-ups
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/wallet/top-ups - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /businesses/{id}/wallet/top-ups - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.TopUpRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/wallet/top-ups - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID

	result, err := h.service.TopUp(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrAccessDenied):
			h.logger.Warn("POST /businesses/{id}/wallet/top-ups - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, wallet.ErrInvalidAmount):
			h.logger.Warn("POST /businesses/{id}/wallet/top-ups - Invalid amount: %d", req.Amount)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, wallet.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/wallet/top-ups - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, wallet.ErrConcurrentUpdate):
			h.logger.Warn("POST /businesses/{id}/wallet/top-ups - Concurrent update: business_id=%d", businessID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /businesses/{id}/wallet/top-ups - Failed to top up: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/wallet/top-ups - Wallet credited: business_id=%d, amount=%d, balance=%d",
		businessID, result.Amount, result.WalletBalance)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
