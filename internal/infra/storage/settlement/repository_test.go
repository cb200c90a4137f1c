package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/booking"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	"github.com/m04kA/SMC-MarketplaceService/pkg/txmanager"
)

// memStore хранилище в памяти: бронирования, кошельки и журнал движений
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]domain.Booking
	balances map[int64]domain.Money
	ledger   []domain.WalletTransaction

	failRecord error
}

func newMemStore(balances map[int64]domain.Money) *memStore {
	return &memStore{
		bookings: make(map[int64]domain.Booking),
		balances: balances,
	}
}

type memSnapshot struct {
	nextID   int64
	bookings map[int64]domain.Booking
	balances map[int64]domain.Money
	ledger   []domain.WalletTransaction
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		nextID:   s.nextID,
		bookings: make(map[int64]domain.Booking, len(s.bookings)),
		balances: make(map[int64]domain.Money, len(s.balances)),
		ledger:   append([]domain.WalletTransaction(nil), s.ledger...),
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.bookings = snap.bookings
	s.balances = snap.balances
	s.ledger = snap.ledger
}

func (s *memStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.nextID++
	created := *b
	created.ID = s.nextID
	s.bookings[created.ID] = created
	return &created, nil
}

func (s *memStore) GetInPeriod(_ context.Context, filter domain.BookingPeriodFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		b := b
		if b.BusinessID == filter.BusinessID && b.Status.OccupiesSlot() && domain.Overlaps(b.StartTime, b.EndTime, filter.From, filter.To) {
			result = append(result, &b)
		}
	}
	return result, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus, reason *string) error {
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrStatusMismatch
	}
	b.Status = to
	b.DeclineReason = reason
	s.bookings[id] = b
	return nil
}

func (s *memStore) DebitWallet(_ context.Context, businessID int64, amount domain.Money) (domain.Money, error) {
	balance, ok := s.balances[businessID]
	if !ok || balance < amount {
		return 0, businessRepo.ErrInsufficientBalance
	}
	s.balances[businessID] = balance - amount
	return balance - amount, nil
}

func (s *memStore) CreditWallet(_ context.Context, businessID int64, amount domain.Money) (domain.Money, error) {
	balance, ok := s.balances[businessID]
	if !ok {
		return 0, businessRepo.ErrBusinessNotFound
	}
	s.balances[businessID] = balance + amount
	return balance + amount, nil
}

func (s *memStore) RecordTransaction(_ context.Context, tx *domain.WalletTransaction) (*domain.WalletTransaction, error) {
	if s.failRecord != nil {
		return nil, s.failRecord
	}
	recorded := *tx
	recorded.ID = int64(len(s.ledger) + 1)
	s.ledger = append(s.ledger, recorded)
	return &recorded, nil
}

// memTxManager сериализует транзакции и откатывает состояние при ошибке
type memTxManager struct {
	store     *memStore
	commitErr error
	calls     []string
}

func (m *memTxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	if m.commitErr != nil {
		m.store.restore(snap)
		return m.commitErr
	}
	return nil
}

func (m *memTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls = append(m.calls, "Do")
	return m.run(ctx, fn)
}

func (m *memTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls = append(m.calls, "DoSerializable")
	return m.run(ctx, fn)
}

func newTestRepository(balances map[int64]domain.Money) (*Repository, *memStore, *memTxManager) {
	store := newMemStore(balances)
	tm := &memTxManager{store: store}
	return NewRepository(store, store, tm), store, tm
}

func cashBooking(start time.Time, fee domain.Money) *domain.Booking {
	return &domain.Booking{
		CustomerID:    100,
		BusinessID:    1,
		ServiceID:     10,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        domain.StatusPendingApproval,
		PaymentMethod: domain.PaymentCash,
		PaymentStatus: domain.PaymentUnpaid,
		OriginalPrice: 10000,
		PlatformFee:   fee,
		FinalTotal:    10000,
	}
}

var slotStart = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func TestInsertCashBookingAndDebit(t *testing.T) {
	t.Run("debits wallet and writes ledger together with booking", func(t *testing.T) {
		repo, store, tm := newTestRepository(map[int64]domain.Money{1: 5000})

		result, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1500))
		require.NoError(t, err)

		assert.Equal(t, []string{"DoSerializable"}, tm.calls)
		assert.Equal(t, domain.Money(3500), result.WalletBalance)
		assert.Equal(t, domain.Money(3500), store.balances[1])
		require.NotNil(t, result.Booking)
		assert.Equal(t, domain.StatusPendingApproval, result.Booking.Status)

		require.Len(t, store.ledger, 1)
		assert.Equal(t, domain.Money(-1500), store.ledger[0].Amount)
		assert.Equal(t, domain.WalletCommissionDebit, store.ledger[0].Kind)
		require.NotNil(t, store.ledger[0].BookingID)
		assert.Equal(t, result.Booking.ID, *store.ledger[0].BookingID)
	})

	t.Run("insufficient balance leaves no booking and no debit", func(t *testing.T) {
		repo, store, _ := newTestRepository(map[int64]domain.Money{1: 1000})

		_, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1500))

		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Empty(t, store.bookings)
		assert.Empty(t, store.ledger)
		assert.Equal(t, domain.Money(1000), store.balances[1])
	})

	t.Run("overlapping booking is rejected before the debit", func(t *testing.T) {
		repo, store, _ := newTestRepository(map[int64]domain.Money{1: 5000})

		_, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1000))
		require.NoError(t, err)

		_, err = repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart.Add(30*time.Minute), 1000))

		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Len(t, store.bookings, 1)
		assert.Equal(t, domain.Money(4000), store.balances[1])
	})

	t.Run("adjacent booking is allowed", func(t *testing.T) {
		repo, store, _ := newTestRepository(map[int64]domain.Money{1: 5000})

		_, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1000))
		require.NoError(t, err)
		_, err = repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart.Add(time.Hour), 1000))
		require.NoError(t, err)

		assert.Len(t, store.bookings, 2)
		assert.Equal(t, domain.Money(3000), store.balances[1])
	})

	t.Run("ledger failure rolls back booking and debit", func(t *testing.T) {
		repo, store, _ := newTestRepository(map[int64]domain.Money{1: 5000})
		store.failRecord = errors.New("connection reset")

		_, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1500))

		assert.ErrorIs(t, err, ErrStorage)
		assert.Empty(t, store.bookings)
		assert.Equal(t, domain.Money(5000), store.balances[1])
	})

	t.Run("serialization failure on commit is a concurrent update", func(t *testing.T) {
		repo, store, tm := newTestRepository(map[int64]domain.Money{1: 5000})
		tm.commitErr = txmanager.ErrSerialization

		_, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1500))

		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.Empty(t, store.bookings)
		assert.Equal(t, domain.Money(5000), store.balances[1])
	})

	t.Run("zero fee skips wallet", func(t *testing.T) {
		repo, store, _ := newTestRepository(map[int64]domain.Money{1: 0})

		result, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 0))
		require.NoError(t, err)

		assert.NotNil(t, result.Booking)
		assert.Empty(t, store.ledger)
		assert.Equal(t, domain.Money(0), store.balances[1])
	})
}

func TestInsertCashBookingAndDebit_ConcurrentRequests(t *testing.T) {
	// кошелек покрывает только две комиссии из пяти
	repo, store, _ := newTestRepository(map[int64]domain.Money{1: 3000})

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := slotStart.Add(time.Duration(i) * time.Hour)
			_, errs[i] = repo.InsertCashBookingAndDebit(context.Background(), cashBooking(start, 1500))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	}

	assert.Equal(t, 2, succeeded)
	assert.Len(t, store.bookings, 2)
	assert.Equal(t, domain.Money(0), store.balances[1])
}

func TestInsertBooking(t *testing.T) {
	repo, store, tm := newTestRepository(map[int64]domain.Money{1: 0})

	b := cashBooking(slotStart, 0)
	b.PaymentMethod = domain.PaymentDigitalWallet
	b.Status = domain.StatusConfirmed
	b.PaymentStatus = domain.PaymentPaid

	created, err := repo.InsertBooking(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, []string{"DoSerializable"}, tm.calls)
	assert.Equal(t, domain.StatusConfirmed, created.Status)
	assert.Empty(t, store.ledger)

	_, err = repo.InsertBooking(context.Background(), b)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestTransitionAndRefund(t *testing.T) {
	t.Run("decline restores pre-debit balance", func(t *testing.T) {
		repo, store, _ := newTestRepository(map[int64]domain.Money{1: 5000})

		result, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1500))
		require.NoError(t, err)

		reason := "мастер заболел"
		balance, err := repo.TransitionAndRefund(context.Background(), result.Booking, domain.StatusDeclined, &reason)
		require.NoError(t, err)

		assert.Equal(t, domain.Money(5000), balance)
		assert.Equal(t, domain.Money(5000), store.balances[1])
		assert.Equal(t, domain.StatusDeclined, store.bookings[result.Booking.ID].Status)

		require.Len(t, store.ledger, 2)
		assert.Equal(t, domain.WalletCommissionRefund, store.ledger[1].Kind)
		assert.Equal(t, domain.Money(1500), store.ledger[1].Amount)
	})

	t.Run("status changed concurrently keeps wallet intact", func(t *testing.T) {
		repo, store, _ := newTestRepository(map[int64]domain.Money{1: 5000})

		result, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1500))
		require.NoError(t, err)

		stale := *result.Booking
		stale.Status = domain.StatusConfirmed

		_, err = repo.TransitionAndRefund(context.Background(), &stale, domain.StatusCancelled, nil)

		assert.ErrorIs(t, err, ErrStatusChanged)
		assert.Equal(t, domain.Money(3500), store.balances[1])
		assert.Equal(t, domain.StatusPendingApproval, store.bookings[result.Booking.ID].Status)
	})

	t.Run("zero fee is rejected", func(t *testing.T) {
		repo, _, tm := newTestRepository(map[int64]domain.Money{1: 5000})

		_, err := repo.TransitionAndRefund(context.Background(), cashBooking(slotStart, 0), domain.StatusDeclined, nil)

		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Empty(t, tm.calls)
	})
}

func TestTransition(t *testing.T) {
	repo, store, _ := newTestRepository(map[int64]domain.Money{1: 5000})

	result, err := repo.InsertCashBookingAndDebit(context.Background(), cashBooking(slotStart, 1500))
	require.NoError(t, err)

	require.NoError(t, repo.Transition(context.Background(), result.Booking, domain.StatusConfirmed, nil))
	assert.Equal(t, domain.StatusConfirmed, store.bookings[result.Booking.ID].Status)

	err = repo.Transition(context.Background(), result.Booking, domain.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrStatusChanged)
}

func TestTopUp(t *testing.T) {
	t.Run("credits wallet and writes ledger", func(t *testing.T) {
		repo, store, tm := newTestRepository(map[int64]domain.Money{1: 500})

		balance, err := repo.TopUp(context.Background(), 1, 2000)
		require.NoError(t, err)

		assert.Equal(t, []string{"Do"}, tm.calls)
		assert.Equal(t, domain.Money(2500), balance)
		require.Len(t, store.ledger, 1)
		assert.Equal(t, domain.WalletTopUp, store.ledger[0].Kind)
		assert.Nil(t, store.ledger[0].BookingID)
	})

	t.Run("unknown business", func(t *testing.T) {
		repo, _, _ := newTestRepository(map[int64]domain.Money{})

		_, err := repo.TopUp(context.Background(), 42, 2000)
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		repo, _, _ := newTestRepository(map[int64]domain.Money{1: 500})

		_, err := repo.TopUp(context.Background(), 1, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "exclusion violation", err: bookingRepo.ErrSlotTaken, want: ErrSlotTaken},
		{name: "status mismatch", err: bookingRepo.ErrStatusMismatch, want: ErrStatusChanged},
		{name: "insufficient balance", err: businessRepo.ErrInsufficientBalance, want: ErrInsufficientBalance},
		{name: "business not found", err: businessRepo.ErrBusinessNotFound, want: ErrBusinessNotFound},
		{name: "booking serialization", err: bookingRepo.ErrSerialization, want: ErrConcurrentUpdate},
		{name: "wallet serialization", err: businessRepo.ErrSerialization, want: ErrConcurrentUpdate},
		{name: "commit serialization", err: txmanager.ErrSerialization, want: ErrConcurrentUpdate},
		{name: "other", err: errors.New("boom"), want: ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("Op", tt.err), tt.want)
		})
	}
}
