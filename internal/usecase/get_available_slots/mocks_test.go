package get_available_slots

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

type mockBusinessRepo struct{ mock.Mock }

func (m *mockBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Business), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) GetWeeklyHours(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklyHours, error) {
	args := m.Called(ctx, businessID, dayOfWeek)
	if h := args.Get(0); h != nil {
		return h.(*domain.WeeklyHours), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleRepo) GetExceptionsByDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.DateException, error) {
	args := m.Called(ctx, businessID, date)
	if e := args.Get(0); e != nil {
		return e.([]*domain.DateException), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetInPeriod(ctx context.Context, filter domain.BookingPeriodFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if b := args.Get(0); b != nil {
		return b.([]*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) ObserveSlotResolution(outcome string) {
	m.Called(outcome)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type staticLocations struct{ loc *time.Location }

func (s staticLocations) Location(string) *time.Location { return s.loc }
