package check_existing_bookings

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
)

type ScheduleService interface {
	CheckExistingBookings(ctx context.Context, req *models.CheckExistingRequest) (*models.CheckExistingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
