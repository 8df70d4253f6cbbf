package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards_engine/internal/metrics"
	"rewards_engine/internal/model"
	"rewards_engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// BonusService pays uplines a share of every task reward earned below them.
type BonusService struct {
	hierarchy *HierarchyService
	ledger    *LedgerService
	cfg       ManagementBonusConfig
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewBonusService(hierarchy *HierarchyService, ledger *LedgerService, m *metrics.Metrics, cfg RewardsConfig) *BonusService {
	return &BonusService{
		hierarchy: hierarchy,
		ledger:    ledger,
		cfg:       cfg.ManagementBonus,
		metrics:   m,
		now:       time.Now,
	}
}

// BonusAmount is the level's percentage of the task reward, rounded to cents.
func BonusAmount(taskReward, percentage decimal.Decimal) decimal.Decimal {
	return model.RoundMoney(taskReward.Mul(percentage).Div(hundred))
}

// DistributeManagementBonuses credits each upline of userID independently. A failed credit
// is reported in the breakdown and does not undo credits already made to other uplines.
func (s *BonusService) DistributeManagementBonuses(ctx context.Context, userID, taskID uuid.UUID, taskReward decimal.Decimal, at time.Time) (*model.BonusDistribution, error) {
	log := logger.Logger()

	ancestors, err := s.hierarchy.GetAncestors(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &model.BonusDistribution{
		Success:               true,
		TotalBonusDistributed: decimal.Zero,
		Breakdown:             make([]model.BonusShare, 0, len(ancestors)),
	}

	for _, ancestor := range ancestors {
		percentage := s.cfg.Rates.Rate(ancestor.Level)
		requested := BonusAmount(taskReward, percentage)
		share := model.BonusShare{
			Level:      ancestor.Level,
			AncestorID: ancestor.ReferrerID,
			Percentage: percentage,
			Requested:  requested,
			Credited:   decimal.Zero,
		}
		if !requested.IsPositive() {
			result.Breakdown = append(result.Breakdown, share)
			continue
		}

		txn, err := s.ledger.CreditCapped(ctx, model.LedgerEntry{
			UserID:      ancestor.ReferrerID,
			Type:        ancestor.Level.ManagementBonusType(),
			Amount:      requested,
			Description: fmt.Sprintf("Level %s management bonus", ancestor.Level.Tier()),
			ReferenceID: fmt.Sprintf("MGMT_%s_%s", ancestor.Level.Tier(), taskID),
			Metadata: map[string]any{
				"source_user_id": userID.String(),
				"task_id":        taskID.String(),
				"percentage":     percentage.String(),
			},
		}, s.cfg.Caps, at)

		switch {
		case err == nil && txn == nil:
			share.Clamped = true
		case err == nil:
			share.Credited = txn.Amount
			share.Clamped = txn.Amount.LessThan(requested)
			id := txn.ID
			share.TransactionID = &id
			result.TotalBonusDistributed = result.TotalBonusDistributed.Add(txn.Amount)
		case errors.Is(err, ErrUserInactive):
			share.Error = "ancestor account is not active"
		default:
			share.Error = err.Error()
			result.Success = false
			log.Error("Failed to credit management bonus",
				zap.String("user_id", userID.String()),
				zap.String("ancestor_id", ancestor.ReferrerID.String()),
				zap.String("level", string(ancestor.Level)),
				zap.String("amount", requested.String()),
				zap.Error(err),
			)
		}
		if share.Clamped {
			s.metrics.RecordBonusClamp(string(ancestor.Level))
			log.Info("Management bonus clamped by cap",
				zap.String("ancestor_id", ancestor.ReferrerID.String()),
				zap.String("level", string(ancestor.Level)),
				zap.String("requested", requested.String()),
				zap.String("credited", share.Credited.String()),
			)
		}

		result.Breakdown = append(result.Breakdown, share)
	}

	return result, nil
}

func (s *BonusService) GetManagementBonusStats(ctx context.Context, userID uuid.UUID) (*model.ManagementBonusStats, error) {
	now := s.now()
	day := model.DayWindowAt(now)

	subordinates, err := s.hierarchy.CountSubordinates(ctx, userID)
	if err != nil {
		return nil, err
	}

	daily, err := s.ledger.ManagementBonusIncome(ctx, userID, day.Start, day.End)
	if err != nil {
		return nil, err
	}
	monthly, err := s.ledger.ManagementBonusIncome(ctx, userID, model.MonthStart(now), day.End)
	if err != nil {
		return nil, err
	}

	return &model.ManagementBonusStats{
		SubordinateCount: subordinates,
		DailyBonuses:     daily,
		MonthlyBonuses:   monthly,
	}, nil
}
