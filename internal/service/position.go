package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"
	"rewards_engine/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PositionService struct {
	repo       PositionRepository
	ledger     *LedgerService
	dashboards DashboardInvalidator
	now        func() time.Time
}

func NewPositionService(repo PositionRepository, ledger *LedgerService) *PositionService {
	return &PositionService{
		repo:   repo,
		ledger: ledger,
		now:    time.Now,
	}
}

func (s *PositionService) GetPositions(ctx context.Context) ([]*model.Position, error) {
	positions, err := s.repo.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// GetUserCurrentPosition returns ErrNoActivePosition when the user holds no unexpired position.
func (s *PositionService) GetUserCurrentPosition(ctx context.Context, userID uuid.UUID) (*model.UserPosition, error) {
	position, err := s.repo.GetCurrentPosition(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActivePosition
		}
		return nil, fmt.Errorf("failed to get current position: %w", err)
	}
	return position, nil
}

func (s *PositionService) GetDailyTasksCompleted(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.CountTasks(ctx, userID, model.DayWindowAt(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to count daily tasks: %w", err)
	}
	return count, nil
}

func (s *PositionService) CanCompleteTask(ctx context.Context, userID uuid.UUID) (*model.TaskEligibility, error) {
	position, err := s.GetUserCurrentPosition(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.GetDailyTasksCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	eligibility := Eligibility(position.Position, completed)
	return &eligibility, nil
}

// Eligibility decides whether another task fits in today's quota.
func Eligibility(position *model.Position, completedToday int) model.TaskEligibility {
	remaining := position.TasksPerDay - completedToday
	if remaining < 0 {
		remaining = 0
	}

	eligibility := model.TaskEligibility{
		CanComplete:    completedToday < position.TasksPerDay,
		TasksRemaining: remaining,
		CompletedToday: completedToday,
		DailyLimit:     position.TasksPerDay,
	}
	if !eligibility.CanComplete {
		eligibility.Reason = ErrDailyLimitReached.Error()
	}
	return eligibility
}

// SubscribePosition charges the position price from the wallet and assigns the position
// for its validity period. Free positions skip the debit.
func (s *PositionService) SubscribePosition(ctx context.Context, userID, positionID uuid.UUID) (*model.UserPosition, error) {
	log := logger.Logger()

	position, err := s.repo.GetPosition(ctx, positionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	if !position.IsActive {
		return nil, ErrPositionNotFound
	}

	start := s.now()
	purchase := model.PositionPurchase{
		UserID:    userID,
		Position:  position,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, position.ValidityDays),
	}
	if position.Price.IsPositive() {
		purchase.Debit = &model.LedgerEntry{
			UserID:      userID,
			Type:        model.TransactionDebit,
			Amount:      position.Price,
			Description: fmt.Sprintf("Subscription to %s position", position.Name),
			ReferenceID: fmt.Sprintf("PLAN_%s_%s_%d", position.ID, userID, start.Unix()),
			Metadata: map[string]any{
				"position_id":   position.ID.String(),
				"position_name": position.Name,
				"validity_days": position.ValidityDays,
			},
		}
	}

	assigned, debit, err := s.repo.PurchasePosition(ctx, purchase)
	if purchase.Debit != nil {
		s.ledger.observe(*purchase.Debit, err)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPositionAlreadyActive):
			return nil, ErrPositionAlreadyActive
		default:
			return nil, translateLedgerError(err)
		}
	}

	fields := []zap.Field{
		zap.String("user_id", userID.String()),
		zap.String("position", position.Name),
		zap.Time("end_date", assigned.EndDate),
	}
	if debit != nil {
		fields = append(fields, zap.String("amount", debit.Amount.String()), zap.String("balance_after", debit.BalanceAfter.String()))
	}
	log.Info("Position subscribed", fields...)

	if s.dashboards != nil {
		s.dashboards.Invalidate(ctx, userID)
	}
	return assigned, nil
}
