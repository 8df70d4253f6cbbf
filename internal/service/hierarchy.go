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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type HierarchyService struct {
	repo   HierarchyRepository
	ledger *LedgerService
	now    func() time.Time
}

func NewHierarchyService(repo HierarchyRepository, ledger *LedgerService) *HierarchyService {
	return &HierarchyService{
		repo:   repo,
		ledger: ledger,
		now:    time.Now,
	}
}

// BuildHierarchyForNewUser materializes up to three upline rows for newUserID, starting at
// its direct referrer. A revisited node means the referred-by chain is corrupt and nothing
// is written.
func (s *HierarchyService) BuildHierarchyForNewUser(ctx context.Context, newUserID, directReferrerID uuid.UUID) ([]*model.ReferralHierarchy, error) {
	now := s.now()
	visited := map[uuid.UUID]bool{newUserID: true}
	rows := make([]*model.ReferralHierarchy, 0, model.MaxUplineDepth)

	current := directReferrerID
	for depth := 1; depth <= model.MaxUplineDepth; depth++ {
		if visited[current] {
			logger.Logger().Error("Referral cycle detected",
				zap.String("user_id", newUserID.String()),
				zap.String("ancestor_id", current.String()),
				zap.Int("depth", depth),
			)
			return nil, ErrHierarchyCycle
		}
		visited[current] = true

		level, _ := model.LevelForDepth(depth)
		rows = append(rows, &model.ReferralHierarchy{
			ID:         uuid.New(),
			ReferrerID: current,
			UserID:     newUserID,
			Level:      level,
			CreatedAt:  now,
		})

		if depth == model.MaxUplineDepth {
			break
		}

		ancestor, err := s.repo.GetUserByID(ctx, current)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				if depth == 1 {
					return nil, ErrUserNotFound
				}
				break
			}
			return nil, fmt.Errorf("failed to walk referral chain: %w", err)
		}
		if ancestor.ReferredBy == nil {
			break
		}
		current = *ancestor.ReferredBy
	}

	if err := s.repo.InsertHierarchy(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to save referral hierarchy: %w", err)
	}
	return rows, nil
}

// GetAncestors returns the uplines of userID, direct referrer first.
func (s *HierarchyService) GetAncestors(ctx context.Context, userID uuid.UUID) ([]*model.ReferralHierarchy, error) {
	ancestors, err := s.repo.GetAncestors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ancestors: %w", err)
	}
	if len(ancestors) > model.MaxUplineDepth {
		ancestors = ancestors[:model.MaxUplineDepth]
	}
	return ancestors, nil
}

func (s *HierarchyService) CountSubordinates(ctx context.Context, userID uuid.UUID) (int, error) {
	counts, err := s.repo.CountSubordinatesByLevel(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count subordinates: %w", err)
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// GetReferralHierarchyStats counts subordinates per level and sums what userID earned from
// each level through referral rewards and management bonuses.
func (s *HierarchyService) GetReferralHierarchyStats(ctx context.Context, userID uuid.UUID) (*model.HierarchyStats, error) {
	counts, err := s.repo.CountSubordinatesByLevel(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subordinates: %w", err)
	}

	income, err := s.ledger.IncomeByType(ctx, userID, time.Time{}, s.now())
	if err != nil {
		return nil, err
	}

	stats := &model.HierarchyStats{
		Counts:        make(map[model.ReferralLevel]int, len(model.ReferralLevels)),
		Earnings:      make(map[model.ReferralLevel]decimal.Decimal, len(model.ReferralLevels)),
		TotalEarnings: decimal.Zero,
	}
	for _, level := range model.ReferralLevels {
		earned := decimal.Zero
		if v, ok := income[level.ReferralRewardType()]; ok {
			earned = earned.Add(v)
		}
		if v, ok := income[level.ManagementBonusType()]; ok {
			earned = earned.Add(v)
		}
		stats.Counts[level] = counts[level]
		stats.Earnings[level] = earned
		stats.TotalEarnings = stats.TotalEarnings.Add(earned)
	}
	return stats, nil
}

func (s *HierarchyService) GetSubordinates(ctx context.Context, userID uuid.UUID) (map[model.ReferralLevel][]*model.Subordinate, error) {
	subs, err := s.repo.GetSubordinates(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get subordinates: %w", err)
	}

	grouped := make(map[model.ReferralLevel][]*model.Subordinate, len(model.ReferralLevels))
	for _, level := range model.ReferralLevels {
		grouped[level] = []*model.Subordinate{}
	}
	for _, sub := range subs {
		grouped[sub.Level] = append(grouped[sub.Level], sub)
	}
	return grouped, nil
}
