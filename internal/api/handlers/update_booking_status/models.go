package update_booking_status

import (
	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"` // declined | cancelled | completed | no_show
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(userID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID: userID,
		Status: r.Status,
		Reason: r.Reason,
	}
}
