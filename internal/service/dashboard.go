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

const recentTransactionsLimit = 10

type DashboardService struct {
	users     UserRepository
	positions *PositionService
	ledger    *LedgerService
	hierarchy *HierarchyService
	bonuses   *BonusService
	cache     DashboardCache
	ttl       time.Duration
	now       func() time.Time
}

// NewDashboardService builds the aggregator. cache may be nil, in which case every request
// is computed from storage.
func NewDashboardService(
	users UserRepository,
	positions *PositionService,
	ledger *LedgerService,
	hierarchy *HierarchyService,
	bonuses *BonusService,
	cache DashboardCache,
	cfg RewardsConfig,
) *DashboardService {
	return &DashboardService{
		users:     users,
		positions: positions,
		ledger:    ledger,
		hierarchy: hierarchy,
		bonuses:   bonuses,
		cache:     cache,
		ttl:       cfg.DashboardCacheTTL,
		now:       time.Now,
	}
}

func dashboardKey(userID uuid.UUID) string {
	return "dashboard:" + userID.String()
}

func (s *DashboardService) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*model.DashboardStats, error) {
	log := logger.Logger()
	key := dashboardKey(userID)

	if s.cache != nil {
		var cached model.DashboardStats
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("Dashboard cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.build(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err = s.cache.Set(ctx, key, stats, s.ttl); err != nil {
			log.Warn("Dashboard cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *DashboardService) build(ctx context.Context, userID uuid.UUID) (*model.DashboardStats, error) {
	now := s.now()
	day := model.DayWindowAt(now)

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	stats := &model.DashboardStats{
		User: model.DashboardUser{
			ID:            user.ID,
			Email:         user.Email,
			Name:          user.Name,
			WalletBalance: user.WalletBalance,
			TotalEarnings: user.TotalEarnings,
			ReferralCode:  user.ReferralCode,
		},
		GeneratedAt: now,
	}

	position, err := s.positions.GetUserCurrentPosition(ctx, userID)
	switch {
	case err == nil:
		completed, err := s.positions.GetDailyTasksCompleted(ctx, userID)
		if err != nil {
			return nil, err
		}
		stats.Position = position.Position
		stats.TaskStats = Eligibility(position.Position, completed)
	case errors.Is(err, ErrNoActivePosition):
		stats.TaskStats = model.TaskEligibility{Reason: ErrNoActivePosition.Error()}
	default:
		return nil, err
	}

	stats.Earnings, err = s.ledger.IncomeBetween(ctx, userID, day.Start, day.End)
	if err != nil {
		return nil, err
	}

	bonusStats, err := s.bonuses.GetManagementBonusStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	hierarchyStats, err := s.hierarchy.GetReferralHierarchyStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TeamStats = model.TeamStats{
		ManagementBonus:   *bonusStats,
		ReferralHierarchy: hierarchyStats,
	}

	stats.RecentTransactions, err = s.ledger.GetTransactions(ctx, userID, model.TransactionFilter{Limit: recentTransactionsLimit})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// InvalidateForUser drops the cached dashboards of userID and every upline, since their
// bonus income changes with userID's tasks.
func (s *DashboardService) InvalidateForUser(ctx context.Context, userID uuid.UUID) {
	if s == nil || s.cache == nil {
		return
	}

	ids := []uuid.UUID{userID}
	ancestors, err := s.hierarchy.GetAncestors(ctx, userID)
	if err != nil {
		logger.Logger().Warn("Failed to load uplines for cache invalidation", zap.String("user_id", userID.String()), zap.Error(err))
	}
	for _, ancestor := range ancestors {
		ids = append(ids, ancestor.ReferrerID)
	}
	s.Invalidate(ctx, ids...)
}

// Invalidate drops the cached dashboards of userIDs.
func (s *DashboardService) Invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if s == nil || s.cache == nil || len(userIDs) == 0 {
		return
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = dashboardKey(id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Logger().Warn("Dashboard cache invalidation failed", zap.String("user_id", userIDs[0].String()), zap.Error(err))
	}
}

// InvalidateOwner is a ledger hook that drops the dashboard of the wallet an entry touched.
func (s *DashboardService) InvalidateOwner(ctx context.Context, txn *model.WalletTransaction) {
	if txn == nil {
		return
	}
	s.Invalidate(ctx, txn.UserID)
}
