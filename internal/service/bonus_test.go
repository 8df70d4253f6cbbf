package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"
	"rewards_engine/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBonusAmount(t *testing.T) {
	tests := []struct {
		reward     string
		percentage string
		expected   string
	}{
		{"2.00", "10", "0.20"},
		{"2.00", "5", "0.10"},
		{"2.00", "2", "0.04"},
		{"1.00", "2", "0.02"},
		{"0.10", "2", "0"},
		{"3.33", "5", "0.17"},
	}

	for _, tt := range tests {
		t.Run(tt.reward+"x"+tt.percentage, func(t *testing.T) {
			got := BonusAmount(dec(tt.reward), dec(tt.percentage))
			assert.True(t, dec(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestBonusService_DistributeManagementBonuses(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 20, 18, 0, 0, 0, time.UTC)
	userID := uuid.New()
	taskID := uuid.New()

	setup := func(t *testing.T) (*BonusService, *mocks.MockHierarchyRepository, *mocks.MockLedgerRepository) {
		hierRepo := mocks.NewMockHierarchyRepository(t)
		ledgerRepo := mocks.NewMockLedgerRepository(t)
		ledger := NewLedgerService(ledgerRepo, nil)
		hierarchy := NewHierarchyService(hierRepo, ledger)
		s := NewBonusService(hierarchy, ledger, nil, DefaultRewardsConfig())
		s.now = func() time.Time { return now }
		return s, hierRepo, ledgerRepo
	}

	forLevel := func(level model.ReferralLevel) interface{} {
		return mock.MatchedBy(func(e model.LedgerEntry) bool { return e.Type == level.ManagementBonusType() })
	}

	t.Run("All three levels paid", func(t *testing.T) {
		s, hierRepo, ledgerRepo := setup(t)
		a, b, c := uuid.New(), uuid.New(), uuid.New()
		hierRepo.On("GetAncestors", mock.Anything, userID).Return([]*model.ReferralHierarchy{
			{ReferrerID: a, UserID: userID, Level: model.LevelA},
			{ReferrerID: b, UserID: userID, Level: model.LevelB},
			{ReferrerID: c, UserID: userID, Level: model.LevelC},
		}, nil).Once()

		// the repository applies the headroom to whatever it would have booked
		credit := func(_ context.Context, e model.LedgerEntry, _ model.DayWindow, _ time.Time, headroom func(today, month decimal.Decimal) decimal.Decimal) (*model.WalletTransaction, error) {
			amount := headroom(decimal.Zero, decimal.Zero)
			reference := e.ReferenceID
			return &model.WalletTransaction{ID: uuid.New(), UserID: e.UserID, Type: e.Type, Amount: amount, ReferenceID: &reference}, nil
		}
		ledgerRepo.On("CreditCapped", mock.Anything, mock.MatchedBy(func(e model.LedgerEntry) bool {
			return e.ReferenceID == "MGMT_A_"+taskID.String() && e.UserID == a
		}), model.DayWindowAt(now), model.MonthStart(now), mock.Anything).Return(credit).Once()
		ledgerRepo.On("CreditCapped", mock.Anything, forLevel(model.LevelB), mock.Anything, mock.Anything, mock.Anything).Return(credit).Once()
		ledgerRepo.On("CreditCapped", mock.Anything, forLevel(model.LevelC), mock.Anything, mock.Anything, mock.Anything).Return(credit).Once()

		result, err := s.DistributeManagementBonuses(ctx, userID, taskID, dec("2.00"), now)
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.True(t, dec("0.34").Equal(result.TotalBonusDistributed), "got %s", result.TotalBonusDistributed)
		require.Len(t, result.Breakdown, 3)
		for _, share := range result.Breakdown {
			assert.False(t, share.Clamped)
			assert.NotNil(t, share.TransactionID)
			assert.True(t, share.Requested.Equal(share.Credited))
		}
	})

	t.Run("Partial headroom and cap reached", func(t *testing.T) {
		s, hierRepo, ledgerRepo := setup(t)
		a, b := uuid.New(), uuid.New()
		hierRepo.On("GetAncestors", mock.Anything, userID).Return([]*model.ReferralHierarchy{
			{ReferrerID: a, UserID: userID, Level: model.LevelA},
			{ReferrerID: b, UserID: userID, Level: model.LevelB},
		}, nil).Once()

		ledgerRepo.On("CreditCapped", mock.Anything, forLevel(model.LevelA), mock.Anything, mock.Anything, mock.Anything).
			Return(&model.WalletTransaction{ID: uuid.New(), Amount: dec("0.05")}, nil).Once()
		ledgerRepo.On("CreditCapped", mock.Anything, forLevel(model.LevelB), mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil).Once()

		result, err := s.DistributeManagementBonuses(ctx, userID, taskID, dec("2.00"), now)
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.True(t, dec("0.05").Equal(result.TotalBonusDistributed))
		assert.True(t, result.Breakdown[0].Clamped)
		assert.True(t, dec("0.05").Equal(result.Breakdown[0].Credited))
		assert.True(t, result.Breakdown[1].Clamped)
		assert.True(t, result.Breakdown[1].Credited.IsZero())
		assert.Nil(t, result.Breakdown[1].TransactionID)
	})

	t.Run("Failures are isolated per ancestor", func(t *testing.T) {
		s, hierRepo, ledgerRepo := setup(t)
		a, b, c := uuid.New(), uuid.New(), uuid.New()
		hierRepo.On("GetAncestors", mock.Anything, userID).Return([]*model.ReferralHierarchy{
			{ReferrerID: a, UserID: userID, Level: model.LevelA},
			{ReferrerID: b, UserID: userID, Level: model.LevelB},
			{ReferrerID: c, UserID: userID, Level: model.LevelC},
		}, nil).Once()

		ledgerRepo.On("CreditCapped", mock.Anything, forLevel(model.LevelA), mock.Anything, mock.Anything, mock.Anything).
			Return(nil, repository.ErrUserInactive).Once()
		ledgerRepo.On("CreditCapped", mock.Anything, forLevel(model.LevelB), mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("deadlock detected")).Once()
		ledgerRepo.On("CreditCapped", mock.Anything, forLevel(model.LevelC), mock.Anything, mock.Anything, mock.Anything).
			Return(&model.WalletTransaction{ID: uuid.New(), Amount: dec("0.04")}, nil).Once()

		result, err := s.DistributeManagementBonuses(ctx, userID, taskID, dec("2.00"), now)
		require.NoError(t, err)

		assert.False(t, result.Success)
		assert.True(t, dec("0.04").Equal(result.TotalBonusDistributed))
		assert.NotEmpty(t, result.Breakdown[0].Error)
		assert.False(t, result.Breakdown[0].Clamped)
		assert.Contains(t, result.Breakdown[1].Error, "deadlock")
		assert.Empty(t, result.Breakdown[2].Error)
	})

	t.Run("No uplines", func(t *testing.T) {
		s, hierRepo, _ := setup(t)
		hierRepo.On("GetAncestors", mock.Anything, userID).Return([]*model.ReferralHierarchy{}, nil).Once()

		result, err := s.DistributeManagementBonuses(ctx, userID, taskID, dec("2.00"), now)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.TotalBonusDistributed.IsZero())
		assert.Empty(t, result.Breakdown)
	})

	t.Run("Share rounds to zero", func(t *testing.T) {
		s, hierRepo, ledgerRepo := setup(t)
		hierRepo.On("GetAncestors", mock.Anything, userID).Return([]*model.ReferralHierarchy{
			{ReferrerID: uuid.New(), UserID: userID, Level: model.LevelC},
		}, nil).Once()

		result, err := s.DistributeManagementBonuses(ctx, userID, taskID, dec("0.10"), now)
		require.NoError(t, err)
		require.Len(t, result.Breakdown, 1)
		assert.True(t, result.Breakdown[0].Requested.IsZero())
		ledgerRepo.AssertNotCalled(t, "CreditCapped", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBonusService_GetManagementBonusStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 20, 18, 0, 0, 0, time.UTC)
	userID := uuid.New()

	hierRepo := mocks.NewMockHierarchyRepository(t)
	ledgerRepo := mocks.NewMockLedgerRepository(t)
	ledger := NewLedgerService(ledgerRepo, nil)
	s := NewBonusService(NewHierarchyService(hierRepo, ledger), ledger, nil, DefaultRewardsConfig())
	s.now = func() time.Time { return now }

	day := model.DayWindowAt(now)
	hierRepo.On("CountSubordinatesByLevel", mock.Anything, userID).Return(map[model.ReferralLevel]int{
		model.LevelA: 3, model.LevelB: 4,
	}, nil).Once()
	ledgerRepo.On("SumIncome", mock.Anything, userID, model.ManagementBonusTypes, day.Start, day.End).Return(dec("1.20"), nil).Once()
	ledgerRepo.On("SumIncome", mock.Anything, userID, model.ManagementBonusTypes, model.MonthStart(now), day.End).Return(dec("14.80"), nil).Once()

	stats, err := s.GetManagementBonusStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.SubordinateCount)
	assert.True(t, dec("1.20").Equal(stats.DailyBonuses))
	assert.True(t, dec("14.80").Equal(stats.MonthlyBonuses))
}
