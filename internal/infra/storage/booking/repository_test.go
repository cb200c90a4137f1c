package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

func TestApplyPeriodFilter(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	t.Run("default excludes slot releasing statuses", func(t *testing.T) {
		filter := domain.BookingPeriodFilter{BusinessID: 7, From: from, To: to}

		query, args, err := applyPeriodFilter(psqlbuilder.Select("id").From(bookingsTable), filter).ToSql()
		require.NoError(t, err)

		assert.Equal(t,
			"SELECT id FROM bookings WHERE business_id = $1 AND start_time < $2 AND end_time > $3 AND status NOT IN ($4,$5)",
			query)
		assert.Equal(t, []interface{}{int64(7), to, from, "cancelled", "declined"}, args)
	})

	t.Run("explicit statuses", func(t *testing.T) {
		filter := domain.BookingPeriodFilter{
			BusinessID: 7,
			From:       from,
			To:         to,
			Statuses:   domain.UpcomingStatuses,
		}

		query, args, err := applyPeriodFilter(psqlbuilder.Select("COUNT(*)").From(bookingsTable), filter).ToSql()
		require.NoError(t, err)

		assert.Equal(t,
			"SELECT COUNT(*) FROM bookings WHERE business_id = $1 AND start_time < $2 AND end_time > $3 AND status IN ($4,$5)",
			query)
		assert.Equal(t, "pending_approval", args[3])
		assert.Equal(t, "confirmed", args[4])
	})
}
