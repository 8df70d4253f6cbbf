package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards_engine/internal/metrics"
	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"
	"rewards_engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const rewardHistoryLimit = 100

// LedgerService is the only way money enters or leaves a wallet. Every entry is applied
// together with its transaction row by the repository.
type LedgerService struct {
	repo    LedgerRepository
	metrics *metrics.Metrics
	hooks   []PostingHook
	now     func() time.Time
}

// PostingHook observes an entry after it is committed. It cannot undo the entry.
type PostingHook func(ctx context.Context, txn *model.WalletTransaction)

func NewLedgerService(repo LedgerRepository, m *metrics.Metrics) *LedgerService {
	return &LedgerService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

func translateLedgerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, repository.ErrDuplicateReference):
		return ErrDuplicateReward
	case errors.Is(err, repository.ErrUserInactive):
		return ErrUserInactive
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	}
	return err
}

func (s *LedgerService) observe(entry model.LedgerEntry, err error) {
	s.metrics.RecordLedgerEntry(string(entry.Type), entry.Amount, err)
}

// OnPosted registers hook for every entry committed through Credit, Debit or CreditCapped.
// Hooks run in registration order on the caller's goroutine.
func (s *LedgerService) OnPosted(hook PostingHook) {
	s.hooks = append(s.hooks, hook)
}

func (s *LedgerService) posted(ctx context.Context, txn *model.WalletTransaction) {
	for _, hook := range s.hooks {
		hook(ctx, txn)
	}
}

func (s *LedgerService) Credit(ctx context.Context, entry model.LedgerEntry) (*model.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	entry.Amount = model.RoundMoney(entry.Amount)

	txn, err := s.repo.Credit(ctx, entry)
	s.observe(entry, err)
	if err != nil {
		return nil, translateLedgerError(err)
	}

	logger.Logger().Debug("Ledger credit",
		zap.String("user_id", entry.UserID.String()),
		zap.String("type", string(entry.Type)),
		zap.String("amount", entry.Amount.String()),
		zap.String("balance_after", txn.BalanceAfter.String()),
	)
	s.posted(ctx, txn)
	return txn, nil
}

func (s *LedgerService) Debit(ctx context.Context, entry model.LedgerEntry) (*model.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	entry.Amount = model.RoundMoney(entry.Amount)

	txn, err := s.repo.Debit(ctx, entry)
	s.observe(entry, err)
	if err != nil {
		return nil, translateLedgerError(err)
	}
	s.posted(ctx, txn)
	return txn, nil
}

// CreditCapped credits a management bonus clamped to the owner's remaining daily and monthly
// headroom. A nil transaction means the owner was already at a cap.
func (s *LedgerService) CreditCapped(ctx context.Context, entry model.LedgerEntry, caps BonusCaps, at time.Time) (*model.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	entry.Amount = model.RoundMoney(entry.Amount)

	headroom := func(today, month decimal.Decimal) decimal.Decimal {
		return ClampToHeadroom(entry.Amount, today, month, caps)
	}

	txn, err := s.repo.CreditCapped(ctx, entry, model.DayWindowAt(at), model.MonthStart(at), headroom)
	if err != nil {
		s.observe(entry, err)
		return nil, translateLedgerError(err)
	}
	if txn != nil {
		s.observe(model.LedgerEntry{Type: entry.Type, Amount: txn.Amount}, nil)
		s.posted(ctx, txn)
	}
	return txn, nil
}

// ClampToHeadroom returns the part of requested that still fits under both caps given the
// income already booked today and this month. It never returns a negative amount.
func ClampToHeadroom(requested, today, month decimal.Decimal, caps BonusCaps) decimal.Decimal {
	allowed := requested
	if caps.Daily > 0 {
		allowed = decimal.Min(allowed, decimal.NewFromFloat(caps.Daily).Sub(today))
	}
	if caps.Monthly > 0 {
		allowed = decimal.Min(allowed, decimal.NewFromFloat(caps.Monthly).Sub(month))
	}
	if allowed.IsNegative() {
		return decimal.Zero
	}
	return allowed
}

// TaskIncomeEntry describes the reward for one accepted watch. The reference makes the
// payout unique per task.
func (s *LedgerService) TaskIncomeEntry(userID uuid.UUID, amount decimal.Decimal, video *model.Video, taskID uuid.UUID, securityScore int) model.LedgerEntry {
	return model.LedgerEntry{
		UserID:      userID,
		Type:        model.TransactionTaskIncome,
		Amount:      model.RoundMoney(amount),
		Description: fmt.Sprintf("Video task: %s", video.Title),
		ReferenceID: fmt.Sprintf("VIDEO_%s", taskID),
		Metadata: map[string]any{
			"video_id":       video.ID.String(),
			"task_id":        taskID.String(),
			"security_score": securityScore,
		},
	}
}

func (s *LedgerService) ReferenceExists(ctx context.Context, referenceID string) (bool, error) {
	exists, err := s.repo.ReferenceExists(ctx, referenceID)
	if err != nil {
		return false, fmt.Errorf("failed to check reference: %w", err)
	}
	return exists, nil
}

func (s *LedgerService) GetTransactions(ctx context.Context, userID uuid.UUID, filter model.TransactionFilter) ([]*model.WalletTransaction, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txs, nil
}

// Withdraw takes amount out of the wallet. It fails closed on insufficient funds.
func (s *LedgerService) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	withdrawalID := uuid.New()
	txn, err := s.Debit(ctx, model.LedgerEntry{
		UserID:      userID,
		Type:        model.TransactionDebit,
		Amount:      amount,
		Description: "Withdrawal",
		ReferenceID: fmt.Sprintf("WITHDRAW_%s", withdrawalID),
		Metadata:    map[string]any{"withdrawal_id": withdrawalID.String()},
	})
	if err != nil {
		return nil, err
	}

	logger.Logger().Info("Withdrawal recorded",
		zap.String("user_id", userID.String()),
		zap.String("amount", txn.Amount.String()),
		zap.String("balance_after", txn.BalanceAfter.String()),
	)
	return txn, nil
}

// GetRewardHistory lists referral rewards with totals per tier.
func (s *LedgerService) GetRewardHistory(ctx context.Context, userID uuid.UUID) (*model.RewardHistory, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, model.TransactionFilter{
		Types: model.ReferralRewardTypes,
		Limit: rewardHistoryLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get reward history: %w", err)
	}

	income, err := s.IncomeByType(ctx, userID, time.Time{}, s.now())
	if err != nil {
		return nil, err
	}

	history := &model.RewardHistory{
		Transactions: txs,
		TotalsByTier: make(map[model.ReferralLevel]decimal.Decimal, len(model.ReferralLevels)),
		CountsByTier: make(map[model.ReferralLevel]int, len(model.ReferralLevels)),
	}
	for _, level := range model.ReferralLevels {
		total, ok := income[level.ReferralRewardType()]
		if !ok {
			total = decimal.Zero
		}
		history.TotalsByTier[level] = total
		history.CountsByTier[level] = 0
	}
	for _, tx := range txs {
		for _, level := range model.ReferralLevels {
			if tx.Type == level.ReferralRewardType() {
				history.CountsByTier[level]++
			}
		}
	}
	return history, nil
}

func (s *LedgerService) IncomeByType(ctx context.Context, userID uuid.UUID, from, to time.Time) (model.IncomeByType, error) {
	income, err := s.repo.SumIncomeByType(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}
	return income, nil
}

// IncomeBetween splits credits booked in [from, to) into task, referral and management income.
func (s *LedgerService) IncomeBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (model.IncomeStreams, error) {
	income, err := s.IncomeByType(ctx, userID, from, to)
	if err != nil {
		return model.IncomeStreams{}, err
	}
	return income.Streams(), nil
}

func (s *LedgerService) ManagementBonusIncome(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	total, err := s.repo.SumIncome(ctx, userID, model.ManagementBonusTypes, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum management bonuses: %w", err)
	}
	return total, nil
}
