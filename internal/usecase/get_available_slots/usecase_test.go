package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
	"github.com/m04kA/SMC-MarketplaceService/pkg/ptr"
	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

const (
	testBusinessID = int64(1)
	testServiceID  = int64(10)
	monday         = 1
)

// 2025-03-10 - понедельник
var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	businesses *mockBusinessRepo
	services   *mockServiceRepo
	schedule   *mockScheduleRepo
	bookings   *mockBookingRepo
	metrics    *mockMetrics
	uc         *UseCase
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		businesses: &mockBusinessRepo{},
		services:   &mockServiceRepo{},
		schedule:   &mockScheduleRepo{},
		bookings:   &mockBookingRepo{},
		metrics:    &mockMetrics{},
	}
	f.uc = NewUseCase(f.businesses, f.services, f.schedule, f.bookings,
		staticLocations{loc: time.UTC}, f.metrics, 30, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: now}

	t.Cleanup(func() {
		f.businesses.AssertExpectations(t)
		f.services.AssertExpectations(t)
		f.schedule.AssertExpectations(t)
		f.bookings.AssertExpectations(t)
		f.metrics.AssertExpectations(t)
	})

	return f
}

func (f *fixture) withBusinessAndService(duration int) {
	f.businesses.On("GetByID", mock.Anything, testBusinessID).
		Return(&domain.Business{ID: testBusinessID, OwnerID: 5, Timezone: "UTC"}, nil)
	f.services.On("GetServiceByID", mock.Anything, testServiceID).
		Return(&domain.Service{ID: testServiceID, BusinessID: testBusinessID, DurationMinutes: duration, Price: 10000}, nil)
}

func hm(s string) types.TimeString {
	return types.TimeString(s)
}

func weekly(openAt, closeAt string) *domain.WeeklyHours {
	return &domain.WeeklyHours{
		BusinessID: testBusinessID,
		DayOfWeek:  monday,
		OpenTime:   hm(openAt),
		CloseTime:  hm(closeAt),
	}
}

func onTestDate(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func starts(slots []domain.TimeSlot, onlyUnavailable bool) []string {
	result := make([]string, 0)
	for _, s := range slots {
		if onlyUnavailable && s.IsAvailable {
			continue
		}
		result = append(result, s.StartTime.Format(domain.TimeFormat))
	}
	return result
}

func TestExecute_MondayExample(t *testing.T) {
	f := newFixture(t, testDate.AddDate(0, 0, -1))
	f.withBusinessAndService(60)

	f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
		Return([]*domain.DateException{}, nil)
	f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).
		Return(weekly("09:00", "17:00"), nil)
	f.bookings.On("GetInPeriod", mock.Anything, mock.MatchedBy(func(filter domain.BookingPeriodFilter) bool {
		return filter.BusinessID == testBusinessID &&
			filter.From.Equal(testDate) &&
			filter.To.Equal(testDate.AddDate(0, 0, 1))
	})).Return([]*domain.Booking{
		{ID: 1, StartTime: onTestDate(10, 0), EndTime: onTestDate(11, 0), Status: domain.StatusConfirmed},
	}, nil)
	f.metrics.On("ObserveSlotResolution", outcomeSlots).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: testBusinessID,
		ServiceID:  testServiceID,
		Date:       testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	}, starts(resp.Slots, false))
	assert.Equal(t, []string{"09:30", "10:00", "10:30"}, starts(resp.Slots, true))

	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, onTestDate(17, 0), last.EndTime)
	assert.True(t, last.IsAvailable)

	for _, s := range resp.Slots {
		assert.Equal(t, time.Hour, s.EndTime.Sub(s.StartTime))
	}
}

func TestExecute_ClosesAtMidnight(t *testing.T) {
	f := newFixture(t, testDate.AddDate(0, 0, -1))
	f.withBusinessAndService(60)

	f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
		Return([]*domain.DateException{}, nil)
	f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).
		Return(weekly("22:00", "24:00"), nil)
	f.bookings.On("GetInPeriod", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
	f.metrics.On("ObserveSlotResolution", outcomeSlots).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: testBusinessID,
		ServiceID:  testServiceID,
		Date:       testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"22:00", "22:30", "23:00"}, starts(resp.Slots, false))
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, testDate.AddDate(0, 0, 1), last.EndTime)
	assert.True(t, last.IsAvailable)
}

func TestExecute_WholeDayClosure(t *testing.T) {
	f := newFixture(t, testDate.AddDate(0, 0, -1))
	f.withBusinessAndService(60)

	f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
		Return([]*domain.DateException{
			{ID: 1, IsClosed: false, OpenTime: ptr.Ptr(hm("08:00")), CloseTime: ptr.Ptr(hm("20:00"))},
			{ID: 2, IsClosed: true, Reason: "санитарный день"},
		}, nil)
	f.metrics.On("ObserveSlotResolution", outcomeClosed).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: testBusinessID,
		ServiceID:  testServiceID,
		Date:       testDate,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	f.schedule.AssertNotCalled(t, "GetWeeklyHours", mock.Anything, mock.Anything, mock.Anything)
	f.bookings.AssertNotCalled(t, "GetInPeriod", mock.Anything, mock.Anything)
}

func TestExecute_OpenOverrideIgnoresWeeklyHours(t *testing.T) {
	f := newFixture(t, testDate.AddDate(0, 0, -1))
	f.withBusinessAndService(60)

	f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
		Return([]*domain.DateException{
			{ID: 3, IsClosed: false, OpenTime: ptr.Ptr(hm("18:00")), CloseTime: ptr.Ptr(hm("20:00"))},
			{ID: 4, IsClosed: false, OpenTime: ptr.Ptr(hm("06:00")), CloseTime: ptr.Ptr(hm("23:00"))},
		}, nil)
	f.bookings.On("GetInPeriod", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
	f.metrics.On("ObserveSlotResolution", outcomeSlots).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: testBusinessID,
		ServiceID:  testServiceID,
		Date:       testDate,
	})
	require.NoError(t, err)

	// первое особое расписание (по id) выигрывает
	assert.Equal(t, []string{"18:00", "18:30", "19:00"}, starts(resp.Slots, false))
	f.schedule.AssertNotCalled(t, "GetWeeklyHours", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_Blackouts(t *testing.T) {
	f := newFixture(t, testDate.AddDate(0, 0, -1))
	f.withBusinessAndService(30)

	f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
		Return([]*domain.DateException{
			{ID: 5, IsClosed: true, OpenTime: ptr.Ptr(hm("10:00")), CloseTime: ptr.Ptr(hm("11:00"))},
			{ID: 6, IsClosed: true, OpenTime: ptr.Ptr(hm("10:30")), CloseTime: ptr.Ptr(hm("11:30"))},
		}, nil)
	f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).
		Return(weekly("09:00", "12:00"), nil)
	f.bookings.On("GetInPeriod", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
	f.metrics.On("ObserveSlotResolution", outcomeSlots).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: testBusinessID,
		ServiceID:  testServiceID,
		Date:       testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, starts(resp.Slots, false))
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, starts(resp.Slots, true))
}

func TestExecute_PastSlotsUnavailable(t *testing.T) {
	f := newFixture(t, onTestDate(10, 10))
	f.withBusinessAndService(30)

	f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
		Return([]*domain.DateException{}, nil)
	f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).
		Return(weekly("09:00", "11:00"), nil)
	f.bookings.On("GetInPeriod", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
	f.metrics.On("ObserveSlotResolution", outcomeSlots).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: testBusinessID,
		ServiceID:  testServiceID,
		Date:       testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, starts(resp.Slots, true))
	assert.True(t, resp.Slots[3].IsAvailable)
}

func TestExecute_BusinessTimezone(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// 06:30 UTC = 09:30 по Москве
	f := newFixture(t, time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC))
	f.uc.locations = staticLocations{loc: moscow}
	f.withBusinessAndService(30)

	f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
		Return([]*domain.DateException{}, nil)
	f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).
		Return(weekly("09:00", "10:30"), nil)
	f.bookings.On("GetInPeriod", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)
	f.metrics.On("ObserveSlotResolution", outcomeSlots).Once()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: testBusinessID,
		ServiceID:  testServiceID,
		Date:       testDate,
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, moscow), resp.Slots[0].StartTime)
	assert.Equal(t, []string{"09:00"}, starts(resp.Slots, true))
}

func TestExecute_ClosedDays(t *testing.T) {
	tests := []struct {
		name   string
		hours  *domain.WeeklyHours
		hrsErr error
	}{
		{name: "weekly row closed", hours: &domain.WeeklyHours{DayOfWeek: monday, IsClosed: true}},
		{name: "weekly row missing", hrsErr: scheduleRepo.ErrHoursNotFound},
		{name: "close before open", hours: weekly("18:00", "09:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testDate.AddDate(0, 0, -1))
			f.withBusinessAndService(60)

			f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
				Return([]*domain.DateException{}, nil)
			f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).
				Return(tt.hours, tt.hrsErr)
			f.metrics.On("ObserveSlotResolution", outcomeClosed).Once()

			resp, err := f.uc.Execute(context.Background(), &Request{
				BusinessID: testBusinessID,
				ServiceID:  testServiceID,
				Date:       testDate,
			})
			require.NoError(t, err)
			assert.Empty(t, resp.Slots)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	dbErr := errors.New("connection refused")

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: 0, ServiceID: testServiceID, Date: testDate})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("business not found", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.businesses.On("GetByID", mock.Anything, testBusinessID).Return(nil, businessRepo.ErrBusinessNotFound)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: testBusinessID, ServiceID: testServiceID, Date: testDate})

		assert.ErrorIs(t, err, ErrBusinessNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("service not found", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.businesses.On("GetByID", mock.Anything, testBusinessID).Return(&domain.Business{ID: testBusinessID}, nil)
		f.services.On("GetServiceByID", mock.Anything, testServiceID).Return(nil, catalogRepo.ErrServiceNotFound)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: testBusinessID, ServiceID: testServiceID, Date: testDate})

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("service of another business", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.businesses.On("GetByID", mock.Anything, testBusinessID).Return(&domain.Business{ID: testBusinessID}, nil)
		f.services.On("GetServiceByID", mock.Anything, testServiceID).
			Return(&domain.Service{ID: testServiceID, BusinessID: 99, DurationMinutes: 60}, nil)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: testBusinessID, ServiceID: testServiceID, Date: testDate})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("zero duration", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.withBusinessAndService(0)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: testBusinessID, ServiceID: testServiceID, Date: testDate})

		assert.ErrorIs(t, err, ErrInvalidDuration)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("bookings store failure is not an empty day", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.withBusinessAndService(60)
		f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
			Return([]*domain.DateException{}, nil)
		f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).
			Return(weekly("09:00", "17:00"), nil)
		f.bookings.On("GetInPeriod", mock.Anything, mock.Anything).Return(nil, dbErr)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: testBusinessID, ServiceID: testServiceID, Date: testDate})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrDataAccess)
	})

	t.Run("weekly hours store failure", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.withBusinessAndService(60)
		f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).
			Return([]*domain.DateException{}, nil)
		f.schedule.On("GetWeeklyHours", mock.Anything, testBusinessID, monday).Return(nil, dbErr)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: testBusinessID, ServiceID: testServiceID, Date: testDate})

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("exceptions store failure", func(t *testing.T) {
		f := newFixture(t, testDate)
		f.withBusinessAndService(60)
		f.schedule.On("GetExceptionsByDate", mock.Anything, testBusinessID, mock.Anything).Return(nil, dbErr)
		f.metrics.On("ObserveSlotResolution", outcomeError).Once()

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: testBusinessID, ServiceID: testServiceID, Date: testDate})

		assert.ErrorIs(t, err, domain.ErrDataAccess)
	})
}
