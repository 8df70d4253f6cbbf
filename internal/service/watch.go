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

// DashboardInvalidator drops cached dashboards affected by a user's new earnings.
type DashboardInvalidator interface {
	InvalidateForUser(ctx context.Context, userID uuid.UUID)
	Invalidate(ctx context.Context, userIDs ...uuid.UUID)
}

// WatchService runs a watch submission through SUBMITTED to ACCEPTED or REJECTED. Once the
// task reward is credited, bonuses, triggers and cache invalidation are best effort.
type WatchService struct {
	repo       WatchRepository
	positions  *PositionService
	ledger     *LedgerService
	bonuses    *BonusService
	referrals  *ReferralService
	dashboards DashboardInvalidator
	antiCheat  AntiCheatConfig
	triggers   TriggerConfig
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewWatchService(
	repo WatchRepository,
	positions *PositionService,
	ledger *LedgerService,
	bonuses *BonusService,
	referrals *ReferralService,
	dashboards DashboardInvalidator,
	m *metrics.Metrics,
	cfg RewardsConfig,
) *WatchService {
	return &WatchService{
		repo:       repo,
		positions:  positions,
		ledger:     ledger,
		bonuses:    bonuses,
		referrals:  referrals,
		dashboards: dashboards,
		antiCheat:  cfg.AntiCheat,
		triggers:   cfg.Triggers,
		metrics:    m,
		now:        time.Now,
	}
}

func rejectionCode(err error) string {
	switch {
	case errors.Is(err, ErrNoActivePosition):
		return "no_active_position"
	case errors.Is(err, ErrVideoNotFound):
		return "video_not_found"
	case errors.Is(err, ErrDailyLimitReached):
		return "daily_limit"
	case errors.Is(err, ErrWatchTooShort):
		return "too_short"
	case errors.Is(err, ErrInvalidWatchDuration):
		return "invalid_duration"
	case errors.Is(err, ErrAlreadyWatchedToday):
		return "already_watched"
	case errors.Is(err, ErrSuspiciousWatch):
		return "suspicious"
	case errors.Is(err, ErrUserInactive):
		return "inactive_user"
	}
	return "error"
}

func (s *WatchService) reject(sub model.WatchSubmission, score int, err error) (*model.WatchResult, error) {
	s.metrics.RecordWatch(string(model.WatchStateRejected), rejectionCode(err), score)

	fields := []zap.Field{
		zap.String("user_id", sub.UserID.String()),
		zap.String("video_id", sub.VideoID.String()),
		zap.Float64("watch_duration", sub.WatchDuration),
		zap.Int("security_score", score),
		zap.Error(err),
	}
	if IsSoftFailure(err) || errors.Is(err, ErrVideoNotFound) {
		logger.Logger().Info("Watch rejected", fields...)
	} else {
		logger.Logger().Error("Watch failed", fields...)
	}

	return &model.WatchResult{
		State:         model.WatchStateRejected,
		SecurityScore: score,
		RejectReason:  err.Error(),
	}, err
}

// SubmitVideoWatch validates a watch, records the task with its reward in one storage
// transaction and then fans out to management bonuses and referral triggers.
func (s *WatchService) SubmitVideoWatch(ctx context.Context, sub model.WatchSubmission) (*model.WatchResult, error) {
	now := s.now()
	window := model.DayWindowAt(now)
	score := maxSecurityScore

	position, err := s.positions.GetUserCurrentPosition(ctx, sub.UserID)
	if err != nil {
		return s.reject(sub, score, err)
	}

	video, err := s.repo.GetVideo(ctx, sub.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.reject(sub, score, ErrVideoNotFound)
		}
		return s.reject(sub, score, fmt.Errorf("failed to get video: %w", err))
	}
	if !video.IsAvailable(now) || !video.IsVisibleTo(position.Position.ID) {
		return s.reject(sub, score, ErrVideoNotFound)
	}

	completed, err := s.positions.GetDailyTasksCompleted(ctx, sub.UserID)
	if err != nil {
		return s.reject(sub, score, err)
	}
	if eligibility := Eligibility(position.Position, completed); !eligibility.CanComplete {
		return s.reject(sub, score, ErrDailyLimitReached)
	}

	score, err = s.antiCheat.Verdict(sub.WatchDuration, video.Duration, sub.Interactions)
	if err != nil {
		return s.reject(sub, score, err)
	}

	watched, err := s.repo.HasWatched(ctx, sub.UserID, sub.VideoID, window)
	if err != nil {
		return s.reject(sub, score, fmt.Errorf("failed to check watch history: %w", err))
	}
	if watched {
		return s.reject(sub, score, ErrAlreadyWatchedToday)
	}

	reward := model.RoundMoney(position.Position.UnitPrice)
	task := &model.UserVideoTask{
		ID:            uuid.New(),
		UserID:        sub.UserID,
		VideoID:       sub.VideoID,
		WatchedAt:     now,
		WatchDuration: sub.WatchDuration,
		RewardEarned:  reward,
		PositionLevel: position.Position.Name,
		IPAddress:     sub.IPAddress,
		DeviceID:      sub.DeviceID,
		IsVerified:    true,
		SecurityScore: score,
	}
	entry := s.ledger.TaskIncomeEntry(sub.UserID, reward, video, task.ID, score)
	entry.Metadata["interactions"] = len(sub.Interactions)
	if len(sub.VerificationData) > 0 {
		entry.Metadata["verification"] = sub.VerificationData
	}

	receipt, err := s.repo.CompleteWatchTask(ctx, task, entry, window, position.Position.TasksPerDay)
	s.ledger.observe(entry, err)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyWatchedToday), errors.Is(err, repository.ErrDuplicateReference):
			return s.reject(sub, score, ErrAlreadyWatchedToday)
		case errors.Is(err, repository.ErrDailyLimitReached):
			return s.reject(sub, score, ErrDailyLimitReached)
		}
		return s.reject(sub, score, translateLedgerError(err))
	}

	s.metrics.RecordWatch(string(model.WatchStateAccepted), "", score)

	remaining := position.Position.TasksPerDay - receipt.TasksCompletedToday
	if remaining < 0 {
		remaining = 0
	}
	result := &model.WatchResult{
		State:                      model.WatchStateAccepted,
		TaskID:                     task.ID,
		RewardEarned:               reward,
		NewBalance:                 receipt.NewBalance,
		TasksCompletedToday:        receipt.TasksCompletedToday,
		DailyTaskLimit:             position.Position.TasksPerDay,
		TasksRemaining:             remaining,
		SecurityScore:              score,
		ManagementBonusDistributed: decimal.Zero,
		BonusBreakdown:             []model.BonusShare{},
	}

	s.afterAccepted(ctx, sub, receipt, result, now)

	logger.Logger().Info("Watch accepted",
		zap.String("user_id", sub.UserID.String()),
		zap.String("video_id", sub.VideoID.String()),
		zap.String("reward", reward.String()),
		zap.String("balance", receipt.NewBalance.String()),
		zap.Int("security_score", score),
		zap.String("management_bonus", result.ManagementBonusDistributed.String()),
	)
	return result, nil
}

// afterAccepted runs the downstream effects of a credited task. None of them can undo the
// task reward, so their failures are logged and reported in the result only.
func (s *WatchService) afterAccepted(ctx context.Context, sub model.WatchSubmission, receipt *model.TaskReceipt, result *model.WatchResult, now time.Time) {
	log := logger.Logger()

	distribution, err := s.bonuses.DistributeManagementBonuses(ctx, sub.UserID, receipt.Task.ID, receipt.Task.RewardEarned, now)
	if err != nil {
		log.Error("Management bonus distribution failed",
			zap.String("user_id", sub.UserID.String()),
			zap.Error(err),
		)
	} else {
		result.ManagementBonusDistributed = distribution.TotalBonusDistributed
		result.BonusBreakdown = distribution.Breakdown
	}

	for _, trigger := range s.triggers.FiredTriggers(receipt) {
		outcome, err := s.referrals.ProcessReferralQualification(ctx, sub.UserID, trigger)
		if err != nil {
			log.Error("Referral trigger failed",
				zap.String("user_id", sub.UserID.String()),
				zap.String("trigger", string(trigger)),
				zap.Error(err),
			)
			continue
		}
		if outcome.Success {
			result.TriggersFired = append(result.TriggersFired, trigger)
		}
	}

	if s.dashboards != nil {
		s.dashboards.InvalidateForUser(ctx, sub.UserID)
	}
}
