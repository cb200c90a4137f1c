package wallet

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/settlement"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wallet/models"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
	"github.com/m04kA/SMC-MarketplaceService/pkg/metrics"
)

type mockSettlementRepo struct{ mock.Mock }

func (m *mockSettlementRepo) TopUp(ctx context.Context, businessID int64, amount domain.Money) (domain.Money, error) {
	args := m.Called(ctx, businessID, amount)
	return args.Get(0).(domain.Money), args.Error(1)
}

const (
	testAdminID    = int64(1)
	testBusinessID = int64(5)
)

func newService(repo *mockSettlementRepo, m *metrics.Metrics) *Service {
	return NewService(repo, []int64{testAdminID}, m, logger.NewNop())
}

func TestTopUp(t *testing.T) {
	repo := &mockSettlementRepo{}
	m := metrics.New("test")
	repo.On("TopUp", mock.Anything, testBusinessID, domain.Money(10000)).Return(domain.Money(12500), nil)

	resp, err := newService(repo, m).TopUp(context.Background(), &models.TopUpRequest{
		UserID: testAdminID, BusinessID: testBusinessID, Amount: 10000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12500), resp.WalletBalance)
	assert.Equal(t, int64(10000), resp.Amount)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WalletMovementsTotal.WithLabelValues("test", "top_up")))
	assert.Equal(t, float64(10000), testutil.ToFloat64(m.WalletMovementsAmount.WithLabelValues("test", "top_up")))
	repo.AssertExpectations(t)
}

func TestTopUp_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.TopUpRequest
		wantErr error
	}{
		{"not admin", &models.TopUpRequest{UserID: 99, BusinessID: testBusinessID, Amount: 100}, ErrAccessDenied},
		{"zero amount", &models.TopUpRequest{UserID: testAdminID, BusinessID: testBusinessID}, ErrInvalidAmount},
		{"negative amount", &models.TopUpRequest{UserID: testAdminID, BusinessID: testBusinessID, Amount: -5}, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSettlementRepo{}

			_, err := newService(repo, nil).TopUp(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTopUp_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{"business not found", settlement.ErrBusinessNotFound, ErrBusinessNotFound},
		{"concurrent update", settlement.ErrConcurrentUpdate, ErrConcurrentUpdate},
		{"storage", settlement.ErrStorage, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSettlementRepo{}
			repo.On("TopUp", mock.Anything, testBusinessID, domain.Money(100)).Return(domain.Money(0), tt.repoErr)

			_, err := newService(repo, nil).TopUp(context.Background(), &models.TopUpRequest{
				UserID: testAdminID, BusinessID: testBusinessID, Amount: 100,
			})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
