package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rewards_engine/internal/metrics"
	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"
	"rewards_engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const recentActivitiesLimit = 20

const (
	ReasonInvalidCode     = "invalid referral code"
	reasonSelfReferral    = "cannot use your own referral code"
	reasonNoReferrer      = "user has no referrer"
	reasonRewardInactive  = "reward not configured"
	reasonAlreadyRewarded = "reward already paid"
	reasonReferrerBlocked = "referrer account is not active"
)

// ReferralService pays one-time rewards to direct referrers when their referrals register
// or reach a milestone.
type ReferralService struct {
	repo      ReferralRepository
	ledger    *LedgerService
	hierarchy *HierarchyService
	metrics   *metrics.Metrics
	triggers  TriggerConfig
	baseURL   string
	now       func() time.Time
}

func NewReferralService(
	repo ReferralRepository,
	ledger *LedgerService,
	hierarchy *HierarchyService,
	m *metrics.Metrics,
	cfg RewardsConfig,
) *ReferralService {
	return &ReferralService{
		repo:      repo,
		ledger:    ledger,
		hierarchy: hierarchy,
		metrics:   m,
		triggers:  cfg.Triggers,
		baseURL:   strings.TrimRight(cfg.ReferralBaseURL, "/"),
		now:       time.Now,
	}
}

func referralReference(trigger model.TriggerEvent, referredUserID uuid.UUID) string {
	return fmt.Sprintf("REFERRAL_%s_%s", trigger, referredUserID)
}

func (s *ReferralService) ReferralLink(code string) string {
	return fmt.Sprintf("%s/register?ref=%s", s.baseURL, code)
}

// TrackReferralVisit records a click on a referral link. Unknown codes are a soft failure.
func (s *ReferralService) TrackReferralVisit(ctx context.Context, visit model.ReferralVisit) (*model.ReferralOutcome, error) {
	referrer, err := s.repo.GetUserByReferralCode(ctx, visit.ReferralCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.ReferralOutcome{Reason: ReasonInvalidCode}, nil
		}
		return nil, fmt.Errorf("failed to resolve referral code: %w", err)
	}

	now := s.now()
	activity := &model.ReferralActivity{
		ID:           uuid.New(),
		ReferrerID:   referrer.ID,
		ReferralCode: visit.ReferralCode,
		Status:       model.ReferralVisited,
		Source:       visit.Source,
		RewardAmount: decimal.Zero,
		IPAddress:    visit.IPAddress,
		UserAgent:    visit.UserAgent,
		Metadata:     visit.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = s.repo.CreateReferralActivity(ctx, activity); err != nil {
		return nil, err
	}

	return &model.ReferralOutcome{Success: true, ActivityID: activity.ID}, nil
}

// ProcessReferralRegistration links a freshly registered user to the owner of code, builds
// the upline rows and pays the registration reward to the direct referrer only.
func (s *ReferralService) ProcessReferralRegistration(ctx context.Context, code string, newUserID uuid.UUID, ipAddress string) (*model.ReferralOutcome, error) {
	log := logger.Logger()

	referrer, err := s.repo.GetUserByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.ReferralOutcome{Reason: ReasonInvalidCode}, nil
		}
		return nil, fmt.Errorf("failed to resolve referral code: %w", err)
	}
	if referrer.ID == newUserID {
		return &model.ReferralOutcome{Reason: reasonSelfReferral}, nil
	}

	now := s.now()
	activityID, err := s.attachActivity(ctx, referrer, code, newUserID, ipAddress, now)
	if err != nil {
		return nil, err
	}

	if _, err = s.hierarchy.BuildHierarchyForNewUser(ctx, newUserID, referrer.ID); err != nil {
		return nil, err
	}

	outcome, err := s.pay(ctx, referrer.ID, newUserID, model.TriggerRegistration, now)
	if err != nil {
		return nil, err
	}
	outcome.ActivityID = activityID

	log.Info("Referral registration processed",
		zap.String("referrer_id", referrer.ID.String()),
		zap.String("user_id", newUserID.String()),
		zap.Bool("paid", outcome.Success),
		zap.String("amount", outcome.RewardAmount.String()),
	)
	return outcome, nil
}

// attachActivity claims the visit that led to this registration, or opens a new activity
// when the user arrived without a tracked click.
func (s *ReferralService) attachActivity(ctx context.Context, referrer *model.User, code string, newUserID uuid.UUID, ipAddress string, now time.Time) (uuid.UUID, error) {
	visit, err := s.repo.FindOpenVisit(ctx, code, ipAddress)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("failed to find referral visit: %w", err)
	}
	if visit != nil {
		claimed, err := s.repo.ClaimVisit(ctx, visit.ID, newUserID, now)
		if err != nil {
			return uuid.Nil, err
		}
		if claimed {
			return visit.ID, nil
		}
	}

	activity := &model.ReferralActivity{
		ID:             uuid.New(),
		ReferrerID:     referrer.ID,
		ReferralCode:   code,
		ReferredUserID: &newUserID,
		Status:         model.ReferralRegistered,
		Source:         "registration",
		RewardAmount:   decimal.Zero,
		IPAddress:      ipAddress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = s.repo.CreateReferralActivity(ctx, activity); err != nil {
		return uuid.Nil, err
	}
	return activity.ID, nil
}

// ProcessReferralQualification pays the direct referrer of userID for reaching trigger.
// Each (referred user, trigger) pair pays at most once; repeats report success false.
func (s *ReferralService) ProcessReferralQualification(ctx context.Context, userID uuid.UUID, trigger model.TriggerEvent) (*model.ReferralOutcome, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.ReferredBy == nil {
		return &model.ReferralOutcome{Reason: reasonNoReferrer}, nil
	}

	reward, outcome, err := s.resolveReward(ctx, trigger)
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		s.metrics.RecordReferralTrigger(string(trigger), false)
		return outcome, nil
	}

	now := s.now()
	referrerID := *user.ReferredBy
	if _, err = s.repo.AdvanceActivity(ctx, referrerID, userID, model.ReferralQualified, now); err != nil {
		return nil, err
	}

	outcome, err = s.credit(ctx, referrerID, userID, trigger, reward, now)
	if outcome != nil {
		s.metrics.RecordReferralTrigger(string(trigger), outcome.Success)
	}
	if err != nil {
		return nil, err
	}
	if outcome.Success {
		if _, err = s.repo.AdvanceActivity(ctx, referrerID, userID, model.ReferralRewarded, now); err != nil {
			logger.Logger().Warn("Failed to mark referral rewarded",
				zap.String("referrer_id", referrerID.String()),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}
	return outcome, nil
}

// pay credits the configured reward for trigger to referrerID as a level A referral reward.
func (s *ReferralService) pay(ctx context.Context, referrerID, referredUserID uuid.UUID, trigger model.TriggerEvent, now time.Time) (*model.ReferralOutcome, error) {
	reward, outcome, err := s.resolveReward(ctx, trigger)
	if err == nil && outcome == nil {
		outcome, err = s.credit(ctx, referrerID, referredUserID, trigger, reward, now)
	}
	if outcome != nil {
		s.metrics.RecordReferralTrigger(string(trigger), outcome.Success)
	}
	return outcome, err
}

// resolveReward returns the active reward for trigger, or a soft-fail outcome when the
// trigger is missing, inactive or worth nothing.
func (s *ReferralService) resolveReward(ctx context.Context, trigger model.TriggerEvent) (*model.ReferralReward, *model.ReferralOutcome, error) {
	reward, err := s.repo.GetReferralReward(ctx, trigger)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &model.ReferralOutcome{Reason: reasonRewardInactive}, nil
		}
		return nil, nil, fmt.Errorf("failed to get referral reward: %w", err)
	}
	if !reward.IsActive || !reward.RewardAmount.IsPositive() {
		return nil, &model.ReferralOutcome{Reason: reasonRewardInactive}, nil
	}
	return reward, nil, nil
}

func (s *ReferralService) credit(
	ctx context.Context,
	referrerID, referredUserID uuid.UUID,
	trigger model.TriggerEvent,
	reward *model.ReferralReward,
	now time.Time,
) (*model.ReferralOutcome, error) {
	reference := referralReference(trigger, referredUserID)
	paid, err := s.ledger.ReferenceExists(ctx, reference)
	if err != nil {
		return nil, err
	}
	if paid {
		return &model.ReferralOutcome{Reason: reasonAlreadyRewarded}, nil
	}

	_, err = s.ledger.Credit(ctx, model.LedgerEntry{
		UserID:      referrerID,
		Type:        model.LevelA.ReferralRewardType(),
		Amount:      reward.RewardAmount,
		Description: fmt.Sprintf("Referral reward: %s", reward.Name),
		ReferenceID: reference,
		Metadata: map[string]any{
			"trigger":          string(trigger),
			"referred_user_id": referredUserID.String(),
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateReward):
			return &model.ReferralOutcome{Reason: reasonAlreadyRewarded}, nil
		case errors.Is(err, ErrUserInactive):
			return &model.ReferralOutcome{Reason: reasonReferrerBlocked}, nil
		}
		return nil, fmt.Errorf("failed to pay referral reward: %w", err)
	}

	if err = s.repo.AddActivityReward(ctx, referrerID, referredUserID, reward.RewardAmount, now); err != nil {
		logger.Logger().Warn("Failed to record referral reward on activity",
			zap.String("referrer_id", referrerID.String()),
			zap.String("user_id", referredUserID.String()),
			zap.Error(err),
		)
	}

	return &model.ReferralOutcome{Success: true, RewardAmount: reward.RewardAmount}, nil
}

// FiredTriggers compares the counters before and after one accepted task and returns the
// milestones crossed by it. Each milestone can only be crossed once per user.
func (c TriggerConfig) FiredTriggers(receipt *model.TaskReceipt) []model.TriggerEvent {
	var fired []model.TriggerEvent

	crossed := func(before, after, threshold int) bool {
		return threshold > 0 && before < threshold && after >= threshold
	}
	if crossed(receipt.TotalVideosBefore, receipt.TotalVideosAfter, c.FirstVideoCount) {
		fired = append(fired, model.TriggerFirstVideo)
	}
	if crossed(receipt.TotalVideosBefore, receipt.TotalVideosAfter, c.WeeklyActivityCount) {
		fired = append(fired, model.TriggerWeeklyActivity)
	}

	if c.HighEarnerCrossed(receipt.TotalEarningsBefore, receipt.TotalEarningsAfter) {
		fired = append(fired, model.TriggerHighEarner)
	}
	return fired
}

// HighEarnerCrossed reports whether lifetime earnings moved from below the high earner
// threshold to at or above it.
func (c TriggerConfig) HighEarnerCrossed(before, after decimal.Decimal) bool {
	threshold := decimal.NewFromFloat(c.HighEarnerThreshold)
	return threshold.IsPositive() && before.LessThan(threshold) && after.GreaterThanOrEqual(threshold)
}

// QualifyHighEarner is a ledger hook. It fires the high earner milestone for the owner of a
// referral reward or management bonus that carried them across the threshold. Task income
// is checked by the watch flow against the task receipt.
func (s *ReferralService) QualifyHighEarner(ctx context.Context, txn *model.WalletTransaction) {
	if txn == nil || txn.Type == model.TransactionTaskIncome || !txn.Type.CountsAsEarnings() {
		return
	}
	if !s.triggers.HighEarnerCrossed(txn.EarningsAfter.Sub(txn.Amount), txn.EarningsAfter) {
		return
	}

	log := logger.Logger()
	outcome, err := s.ProcessReferralQualification(ctx, txn.UserID, model.TriggerHighEarner)
	if err != nil {
		log.Error("High earner trigger failed",
			zap.String("user_id", txn.UserID.String()),
			zap.String("type", string(txn.Type)),
			zap.Error(err),
		)
		return
	}
	log.Info("High earner milestone reached",
		zap.String("user_id", txn.UserID.String()),
		zap.String("type", string(txn.Type)),
		zap.Bool("paid", outcome.Success),
		zap.String("reason", outcome.Reason),
	)
}

func (s *ReferralService) GetReferralStats(ctx context.Context, userID uuid.UUID) (*model.ReferralStats, error) {
	stats, err := s.repo.SummarizeReferralActivities(ctx, userID, model.MonthStart(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to get referral stats: %w", err)
	}

	activities, err := s.repo.ListReferralActivities(ctx, userID, recentActivitiesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list referral activities: %w", err)
	}
	stats.Activities = activities
	return stats, nil
}
