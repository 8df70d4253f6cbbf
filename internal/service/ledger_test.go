package service

import (
	"context"
	"strings"
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

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClampToHeadroom(t *testing.T) {
	caps := BonusCaps{Daily: 50, Monthly: 1000}

	tests := []struct {
		name      string
		requested string
		today     string
		month     string
		caps      BonusCaps
		expected  string
	}{
		{name: "Fits", requested: "5", today: "10", month: "100", caps: caps, expected: "5"},
		{name: "Clamped by daily cap", requested: "5", today: "48", month: "100", caps: caps, expected: "2"},
		{name: "Clamped by monthly cap", requested: "5", today: "0", month: "999", caps: caps, expected: "1"},
		{name: "At daily cap", requested: "5", today: "50", month: "100", caps: caps, expected: "0"},
		{name: "Over daily cap", requested: "5", today: "55", month: "100", caps: caps, expected: "0"},
		{name: "Caps disabled", requested: "5", today: "500", month: "5000", caps: BonusCaps{}, expected: "5"},
		{name: "Only monthly enabled", requested: "5", today: "500", month: "998", caps: BonusCaps{Monthly: 1000}, expected: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampToHeadroom(dec(tt.requested), dec(tt.today), dec(tt.month), tt.caps)
			assert.True(t, dec(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestLedgerService_Credit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Rejects non-positive amounts", func(t *testing.T) {
		repo := mocks.NewMockLedgerRepository(t)
		s := NewLedgerService(repo, nil)

		_, err := s.Credit(ctx, model.LedgerEntry{UserID: userID, Type: model.TransactionCredit, Amount: decimal.Zero})
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = s.Credit(ctx, model.LedgerEntry{UserID: userID, Type: model.TransactionCredit, Amount: dec("-1")})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Rounds to cents", func(t *testing.T) {
		repo := mocks.NewMockLedgerRepository(t)
		s := NewLedgerService(repo, nil)

		repo.On("Credit", mock.Anything, mock.MatchedBy(func(e model.LedgerEntry) bool {
			return e.Amount.Equal(dec("1.01"))
		})).Return(&model.WalletTransaction{Amount: dec("1.01"), BalanceAfter: dec("1.01")}, nil).Once()

		txn, err := s.Credit(ctx, model.LedgerEntry{UserID: userID, Type: model.TransactionCredit, Amount: dec("1.005")})
		require.NoError(t, err)
		assert.True(t, dec("1.01").Equal(txn.Amount))
	})

	t.Run("Translates storage errors", func(t *testing.T) {
		tests := []struct {
			repoErr  error
			expected error
		}{
			{repository.ErrDuplicateReference, ErrDuplicateReward},
			{repository.ErrUserInactive, ErrUserInactive},
			{repository.ErrNotFound, ErrUserNotFound},
		}
		for _, tt := range tests {
			repo := mocks.NewMockLedgerRepository(t)
			s := NewLedgerService(repo, nil)
			repo.On("Credit", mock.Anything, mock.Anything).Return(nil, tt.repoErr).Once()

			_, err := s.Credit(ctx, model.LedgerEntry{UserID: userID, Type: model.TransactionCredit, Amount: dec("1")})
			assert.ErrorIs(t, err, tt.expected)
		}
	})
}

func TestLedgerService_Withdraw(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Insufficient funds fails closed", func(t *testing.T) {
		repo := mocks.NewMockLedgerRepository(t)
		s := NewLedgerService(repo, nil)

		repo.On("Debit", mock.Anything, mock.MatchedBy(func(e model.LedgerEntry) bool {
			return e.Type == model.TransactionDebit &&
				e.Amount.Equal(dec("25")) &&
				strings.HasPrefix(e.ReferenceID, "WITHDRAW_")
		})).Return(nil, repository.ErrInsufficientFunds).Once()

		txn, err := s.Withdraw(ctx, userID, dec("25"))
		assert.Nil(t, txn)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("Success", func(t *testing.T) {
		repo := mocks.NewMockLedgerRepository(t)
		s := NewLedgerService(repo, nil)

		repo.On("Debit", mock.Anything, mock.Anything).
			Return(&model.WalletTransaction{Type: model.TransactionDebit, Amount: dec("5"), BalanceAfter: dec("5")}, nil).Once()

		txn, err := s.Withdraw(ctx, userID, dec("5"))
		require.NoError(t, err)
		assert.True(t, dec("5").Equal(txn.BalanceAfter))
	})

	t.Run("Zero amount", func(t *testing.T) {
		s := NewLedgerService(mocks.NewMockLedgerRepository(t), nil)

		_, err := s.Withdraw(ctx, userID, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestLedgerService_CreditCapped(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	at := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	caps := BonusCaps{Daily: 50, Monthly: 1000}

	entry := model.LedgerEntry{
		UserID:      ownerID,
		Type:        model.TransactionManagementBonusA,
		Amount:      dec("5"),
		ReferenceID: "MGMT_A_task",
	}

	// creditWith simulates the repository: it asks headroom for the clamp and credits
	// only a positive result.
	creditWith := func(today, month string) func(context.Context, model.LedgerEntry, model.DayWindow, time.Time, func(today, month decimal.Decimal) decimal.Decimal) (*model.WalletTransaction, error) {
		return func(_ context.Context, e model.LedgerEntry, day model.DayWindow, monthStart time.Time, headroom func(today, month decimal.Decimal) decimal.Decimal) (*model.WalletTransaction, error) {
			amount := headroom(dec(today), dec(month))
			if !amount.IsPositive() {
				return nil, nil
			}
			return &model.WalletTransaction{UserID: e.UserID, Type: e.Type, Amount: amount}, nil
		}
	}

	sameEntry := mock.MatchedBy(func(e model.LedgerEntry) bool {
		return e.ReferenceID == entry.ReferenceID && e.Amount.Equal(entry.Amount)
	})

	t.Run("Partially clamped", func(t *testing.T) {
		repo := mocks.NewMockLedgerRepository(t)
		s := NewLedgerService(repo, nil)

		repo.On("CreditCapped", mock.Anything, sameEntry, model.DayWindowAt(at), model.MonthStart(at), mock.Anything).
			Return(creditWith("48", "100")).Once()

		txn, err := s.CreditCapped(ctx, entry, caps, at)
		require.NoError(t, err)
		require.NotNil(t, txn)
		assert.True(t, dec("2").Equal(txn.Amount))
	})

	t.Run("Already at cap", func(t *testing.T) {
		repo := mocks.NewMockLedgerRepository(t)
		s := NewLedgerService(repo, nil)

		repo.On("CreditCapped", mock.Anything, sameEntry, mock.Anything, mock.Anything, mock.Anything).
			Return(creditWith("50", "100")).Once()

		txn, err := s.CreditCapped(ctx, entry, caps, at)
		require.NoError(t, err)
		assert.Nil(t, txn)
	})
}

func TestLedgerService_OnPosted(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	at := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)

	repo := mocks.NewMockLedgerRepository(t)
	s := NewLedgerService(repo, nil)

	var seen []model.TransactionType
	s.OnPosted(func(_ context.Context, txn *model.WalletTransaction) {
		seen = append(seen, txn.Type)
	})
	calls := 0
	s.OnPosted(func(context.Context, *model.WalletTransaction) { calls++ })

	repo.On("Credit", mock.Anything, mock.Anything).
		Return(&model.WalletTransaction{UserID: userID, Type: model.TransactionReferralRewardA, Amount: dec("1")}, nil).Once()
	repo.On("Debit", mock.Anything, mock.Anything).
		Return(&model.WalletTransaction{UserID: userID, Type: model.TransactionDebit, Amount: dec("1")}, nil).Once()
	repo.On("Debit", mock.Anything, mock.Anything).Return(nil, repository.ErrInsufficientFunds).Once()
	repo.On("CreditCapped", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.WalletTransaction{UserID: userID, Type: model.TransactionManagementBonusA, Amount: dec("0.50")}, nil).Once()
	repo.On("CreditCapped", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

	_, err := s.Credit(ctx, model.LedgerEntry{UserID: userID, Type: model.TransactionReferralRewardA, Amount: dec("1")})
	require.NoError(t, err)
	_, err = s.Withdraw(ctx, userID, dec("1"))
	require.NoError(t, err)
	_, err = s.Withdraw(ctx, userID, dec("100"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	bonus := model.LedgerEntry{UserID: userID, Type: model.TransactionManagementBonusA, Amount: dec("0.50")}
	txn, err := s.CreditCapped(ctx, bonus, BonusCaps{Daily: 50}, at)
	require.NoError(t, err)
	require.NotNil(t, txn)
	txn, err = s.CreditCapped(ctx, bonus, BonusCaps{Daily: 50}, at)
	require.NoError(t, err)
	require.Nil(t, txn)

	assert.Equal(t, []model.TransactionType{
		model.TransactionReferralRewardA,
		model.TransactionDebit,
		model.TransactionManagementBonusA,
	}, seen)
	assert.Equal(t, 3, calls)
}

func TestLedgerService_GetRewardHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := mocks.NewMockLedgerRepository(t)
	s := NewLedgerService(repo, nil)

	txs := []*model.WalletTransaction{
		{Type: model.TransactionReferralRewardA, Amount: dec("1")},
		{Type: model.TransactionReferralRewardA, Amount: dec("5")},
		{Type: model.TransactionReferralRewardB, Amount: dec("3")},
	}
	repo.On("ListTransactions", mock.Anything, userID, model.TransactionFilter{
		Types: model.ReferralRewardTypes,
		Limit: rewardHistoryLimit,
	}).Return(txs, nil).Once()
	repo.On("SumIncomeByType", mock.Anything, userID, time.Time{}, mock.Anything).Return(model.IncomeByType{
		model.TransactionReferralRewardA: dec("6"),
		model.TransactionReferralRewardB: dec("3"),
		model.TransactionTaskIncome:      dec("40"),
	}, nil).Once()

	history, err := s.GetRewardHistory(ctx, userID)
	require.NoError(t, err)

	assert.Len(t, history.Transactions, 3)
	assert.Equal(t, 2, history.CountsByTier[model.LevelA])
	assert.Equal(t, 1, history.CountsByTier[model.LevelB])
	assert.Equal(t, 0, history.CountsByTier[model.LevelC])
	assert.True(t, dec("6").Equal(history.TotalsByTier[model.LevelA]))
	assert.True(t, decimal.Zero.Equal(history.TotalsByTier[model.LevelC]))
}
