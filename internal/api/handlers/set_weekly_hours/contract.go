package set_weekly_hours

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
)

type ScheduleService interface {
	SetWeeklyHours(ctx context.Context, req *models.SetWeeklyHoursRequest) (*models.WeeklyHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
