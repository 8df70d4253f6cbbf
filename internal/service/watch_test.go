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

type watchHarness struct {
	positions *mocks.MockPositionRepository
	watch     *mocks.MockWatchRepository
	ledger    *mocks.MockLedgerRepository
	hierarchy *mocks.MockHierarchyRepository
	referrals *mocks.MockReferralRepository
	cache     *mocks.MockDashboardCache

	service *WatchService
}

func newWatchHarness(t *testing.T, now time.Time, cfg RewardsConfig) *watchHarness {
	h := &watchHarness{
		positions: mocks.NewMockPositionRepository(t),
		watch:     mocks.NewMockWatchRepository(t),
		ledger:    mocks.NewMockLedgerRepository(t),
		hierarchy: mocks.NewMockHierarchyRepository(t),
		referrals: mocks.NewMockReferralRepository(t),
		cache:     mocks.NewMockDashboardCache(t),
	}
	clock := func() time.Time { return now }

	ledger := NewLedgerService(h.ledger, nil)
	ledger.now = clock
	positions := NewPositionService(h.positions, ledger)
	positions.now = clock
	hierarchy := NewHierarchyService(h.hierarchy, ledger)
	hierarchy.now = clock
	referrals := NewReferralService(h.referrals, ledger, hierarchy, nil, cfg)
	referrals.now = clock
	bonuses := NewBonusService(hierarchy, ledger, nil, cfg)
	bonuses.now = clock
	dashboard := NewDashboardService(nil, positions, ledger, hierarchy, bonuses, h.cache, cfg)
	dashboard.now = clock

	h.service = NewWatchService(h.watch, positions, ledger, bonuses, referrals, dashboard, nil, cfg)
	h.service.now = clock
	return h
}

func silver() *model.Position {
	return &model.Position{
		ID:           uuid.New(),
		Name:         "Silver",
		Level:        2,
		TasksPerDay:  10,
		UnitPrice:    dec("2.00"),
		Price:        dec("150.00"),
		ValidityDays: 30,
		IsActive:     true,
	}
}

// expectEligible sets up an active position, an available video and the day's task count.
func (h *watchHarness) expectEligible(userID uuid.UUID, video *model.Video, position *model.Position, now time.Time, completed int) {
	h.positions.On("GetCurrentPosition", mock.Anything, userID, now).Return(&model.UserPosition{
		UserID:   userID,
		Position: position,
		Status:   model.UserPositionActive,
		EndDate:  now.AddDate(0, 0, 20),
	}, nil).Once()
	h.watch.On("GetVideo", mock.Anything, video.ID).Return(video, nil).Once()
	h.positions.On("CountTasks", mock.Anything, userID, model.DayWindowAt(now)).Return(completed, nil).Once()
}

func completeWith(receipt model.TaskReceipt) func(context.Context, *model.UserVideoTask, model.LedgerEntry, model.DayWindow, int) (*model.TaskReceipt, error) {
	return func(_ context.Context, task *model.UserVideoTask, entry model.LedgerEntry, _ model.DayWindow, _ int) (*model.TaskReceipt, error) {
		r := receipt
		r.Task = task
		r.Transaction = &model.WalletTransaction{ID: uuid.New(), Type: entry.Type, Amount: entry.Amount, BalanceAfter: r.NewBalance}
		return &r, nil
	}
}

func TestWatchService_SubmitVideoWatch_Accepted(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	userID := uuid.New()
	position := silver()
	video := &model.Video{
		ID:            uuid.New(),
		Title:         "Intro",
		Duration:      100,
		IsActive:      true,
		AvailableFrom: now.Add(-time.Hour),
	}

	h := newWatchHarness(t, now, DefaultRewardsConfig())
	h.expectEligible(userID, video, position, now, 0)
	h.watch.On("HasWatched", mock.Anything, userID, video.ID, model.DayWindowAt(now)).Return(false, nil).Once()
	h.watch.On("CompleteWatchTask",
		mock.Anything,
		mock.MatchedBy(func(task *model.UserVideoTask) bool {
			return task.UserID == userID && task.VideoID == video.ID && task.RewardEarned.Equal(dec("2"))
		}),
		mock.MatchedBy(func(e model.LedgerEntry) bool {
			return e.Type == model.TransactionTaskIncome &&
				e.Amount.Equal(dec("2")) &&
				strings.HasPrefix(e.ReferenceID, "VIDEO_")
		}),
		model.DayWindowAt(now),
		10,
	).Return(completeWith(model.TaskReceipt{
		NewBalance:          dec("2.00"),
		TasksCompletedToday: 1,
		TotalVideosBefore:   5,
		TotalVideosAfter:    6,
		TotalEarningsBefore: dec("10"),
		TotalEarningsAfter:  dec("12"),
	})).Once()

	// no uplines: nothing to distribute, only the user's own dashboard is invalidated
	h.hierarchy.On("GetAncestors", mock.Anything, userID).Return([]*model.ReferralHierarchy{}, nil).Twice()
	h.cache.On("Delete", mock.Anything, "dashboard:"+userID.String()).Return(nil).Once()

	result, err := h.service.SubmitVideoWatch(ctx, model.WatchSubmission{
		UserID:        userID,
		VideoID:       video.ID,
		WatchDuration: 85,
		Interactions:  []model.WatchInteraction{{Type: "pause", At: 40}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.WatchStateAccepted, result.State)
	assert.True(t, dec("2.00").Equal(result.RewardEarned))
	assert.True(t, dec("2.00").Equal(result.NewBalance))
	assert.Equal(t, 1, result.TasksCompletedToday)
	assert.Equal(t, 10, result.DailyTaskLimit)
	assert.Equal(t, 9, result.TasksRemaining)
	assert.Equal(t, 100, result.SecurityScore)
	assert.True(t, result.ManagementBonusDistributed.IsZero())
	assert.Empty(t, result.TriggersFired)
}

func TestWatchService_SubmitVideoWatch_BonusesAndTriggers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	userID := uuid.New()
	referrerID := uuid.New()
	grandReferrerID := uuid.New()
	position := silver()
	video := &model.Video{ID: uuid.New(), Duration: 100, IsActive: true, AvailableFrom: now.Add(-time.Hour)}

	h := newWatchHarness(t, now, DefaultRewardsConfig())
	h.expectEligible(userID, video, position, now, 0)
	h.watch.On("HasWatched", mock.Anything, userID, video.ID, mock.Anything).Return(false, nil).Once()
	h.watch.On("CompleteWatchTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 10).
		Return(completeWith(model.TaskReceipt{
			NewBalance:          dec("2.00"),
			TasksCompletedToday: 1,
			TotalVideosBefore:   0,
			TotalVideosAfter:    1,
			TotalEarningsBefore: decimal.Zero,
			TotalEarningsAfter:  dec("2"),
		})).Once()

	ancestors := []*model.ReferralHierarchy{
		{ReferrerID: referrerID, UserID: userID, Level: model.LevelA},
		{ReferrerID: grandReferrerID, UserID: userID, Level: model.LevelB},
	}
	h.hierarchy.On("GetAncestors", mock.Anything, userID).Return(ancestors, nil).Twice()

	// level A gets 10% of 2.00; level B is already at its daily cap
	h.ledger.On("CreditCapped", mock.Anything, mock.MatchedBy(func(e model.LedgerEntry) bool {
		return e.UserID == referrerID && e.Type == model.TransactionManagementBonusA && e.Amount.Equal(dec("0.20"))
	}), mock.Anything, mock.Anything, mock.Anything).
		Return(&model.WalletTransaction{ID: uuid.New(), Amount: dec("0.20")}, nil).Once()
	h.ledger.On("CreditCapped", mock.Anything, mock.MatchedBy(func(e model.LedgerEntry) bool {
		return e.UserID == grandReferrerID && e.Type == model.TransactionManagementBonusB && e.Amount.Equal(dec("0.10"))
	}), mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()

	// first video pays the direct referrer once
	reference := "REFERRAL_first_video_" + userID.String()
	h.referrals.On("GetUserByID", mock.Anything, userID).Return(&model.User{ID: userID, ReferredBy: &referrerID}, nil).Once()
	h.referrals.On("AdvanceActivity", mock.Anything, referrerID, userID, model.ReferralQualified, now).Return(true, nil).Once()
	h.referrals.On("GetReferralReward", mock.Anything, model.TriggerFirstVideo).Return(&model.ReferralReward{
		Name:         "First video bonus",
		TriggerEvent: model.TriggerFirstVideo,
		RewardAmount: dec("5.00"),
		IsActive:     true,
	}, nil).Once()
	h.ledger.On("ReferenceExists", mock.Anything, reference).Return(false, nil).Once()
	h.ledger.On("Credit", mock.Anything, mock.MatchedBy(func(e model.LedgerEntry) bool {
		return e.UserID == referrerID && e.Type == model.TransactionReferralRewardA && e.ReferenceID == reference
	})).Return(&model.WalletTransaction{Amount: dec("5"), BalanceAfter: dec("5")}, nil).Once()
	h.referrals.On("AddActivityReward", mock.Anything, referrerID, userID, dec("5.00"), now).Return(nil).Once()
	h.referrals.On("AdvanceActivity", mock.Anything, referrerID, userID, model.ReferralRewarded, now).Return(true, nil).Once()

	h.cache.On("Delete", mock.Anything,
		"dashboard:"+userID.String(),
		"dashboard:"+referrerID.String(),
		"dashboard:"+grandReferrerID.String(),
	).Return(nil).Once()

	result, err := h.service.SubmitVideoWatch(ctx, model.WatchSubmission{
		UserID:        userID,
		VideoID:       video.ID,
		WatchDuration: 85,
	})
	require.NoError(t, err)

	assert.Equal(t, model.WatchStateAccepted, result.State)
	assert.Equal(t, 80, result.SecurityScore)
	assert.True(t, dec("0.20").Equal(result.ManagementBonusDistributed))
	require.Len(t, result.BonusBreakdown, 2)
	assert.False(t, result.BonusBreakdown[0].Clamped)
	assert.True(t, result.BonusBreakdown[1].Clamped)
	assert.True(t, result.BonusBreakdown[1].Credited.IsZero())
	assert.Equal(t, []model.TriggerEvent{model.TriggerFirstVideo}, result.TriggersFired)
}

func TestWatchService_SubmitVideoWatch_Rejected(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	userID := uuid.New()

	newVideo := func() *model.Video {
		return &model.Video{ID: uuid.New(), Duration: 100, IsActive: true, AvailableFrom: now.Add(-time.Hour)}
	}

	tests := []struct {
		name          string
		watchDuration float64
		setup         func(h *watchHarness, video *model.Video)
		expectedErr   error
	}{
		{
			name:          "No active position",
			watchDuration: 85,
			setup: func(h *watchHarness, video *model.Video) {
				h.positions.On("GetCurrentPosition", mock.Anything, userID, now).Return(nil, repository.ErrNotFound).Once()
			},
			expectedErr: ErrNoActivePosition,
		},
		{
			name:          "Unknown video",
			watchDuration: 85,
			setup: func(h *watchHarness, video *model.Video) {
				h.positions.On("GetCurrentPosition", mock.Anything, userID, now).
					Return(&model.UserPosition{Position: silver(), Status: model.UserPositionActive}, nil).Once()
				h.watch.On("GetVideo", mock.Anything, video.ID).Return(nil, repository.ErrNotFound).Once()
			},
			expectedErr: ErrVideoNotFound,
		},
		{
			name:          "Video for another position",
			watchDuration: 85,
			setup: func(h *watchHarness, video *model.Video) {
				other := uuid.New()
				video.PositionID = &other
				h.positions.On("GetCurrentPosition", mock.Anything, userID, now).
					Return(&model.UserPosition{Position: silver(), Status: model.UserPositionActive}, nil).Once()
				h.watch.On("GetVideo", mock.Anything, video.ID).Return(video, nil).Once()
			},
			expectedErr: ErrVideoNotFound,
		},
		{
			name:          "Daily limit reached",
			watchDuration: 85,
			setup: func(h *watchHarness, video *model.Video) {
				h.expectEligible(userID, video, silver(), now, 10)
			},
			expectedErr: ErrDailyLimitReached,
		},
		{
			name:          "Too short",
			watchDuration: 79,
			setup: func(h *watchHarness, video *model.Video) {
				h.expectEligible(userID, video, silver(), now, 0)
			},
			expectedErr: ErrWatchTooShort,
		},
		{
			name:          "Implausibly long",
			watchDuration: 201,
			setup: func(h *watchHarness, video *model.Video) {
				h.expectEligible(userID, video, silver(), now, 0)
			},
			expectedErr: ErrInvalidWatchDuration,
		},
		{
			name:          "Already watched today",
			watchDuration: 85,
			setup: func(h *watchHarness, video *model.Video) {
				h.expectEligible(userID, video, silver(), now, 3)
				h.watch.On("HasWatched", mock.Anything, userID, video.ID, model.DayWindowAt(now)).Return(true, nil).Once()
			},
			expectedErr: ErrAlreadyWatchedToday,
		},
		{
			name:          "Lost race to a concurrent submission",
			watchDuration: 85,
			setup: func(h *watchHarness, video *model.Video) {
				h.expectEligible(userID, video, silver(), now, 3)
				h.watch.On("HasWatched", mock.Anything, userID, video.ID, mock.Anything).Return(false, nil).Once()
				h.watch.On("CompleteWatchTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 10).
					Return(nil, repository.ErrAlreadyWatchedToday).Once()
			},
			expectedErr: ErrAlreadyWatchedToday,
		},
		{
			name:          "Limit reached under lock",
			watchDuration: 85,
			setup: func(h *watchHarness, video *model.Video) {
				h.expectEligible(userID, video, silver(), now, 9)
				h.watch.On("HasWatched", mock.Anything, userID, video.ID, mock.Anything).Return(false, nil).Once()
				h.watch.On("CompleteWatchTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 10).
					Return(nil, repository.ErrDailyLimitReached).Once()
			},
			expectedErr: ErrDailyLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newWatchHarness(t, now, DefaultRewardsConfig())
			video := newVideo()
			tt.setup(h, video)

			result, err := h.service.SubmitVideoWatch(ctx, model.WatchSubmission{
				UserID:        userID,
				VideoID:       video.ID,
				WatchDuration: tt.watchDuration,
			})

			assert.ErrorIs(t, err, tt.expectedErr)
			require.NotNil(t, result)
			assert.Equal(t, model.WatchStateRejected, result.State)
			assert.Equal(t, tt.expectedErr.Error(), result.RejectReason)
		})
	}
}

func TestWatchService_SubmitVideoWatch_SecurityGate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	userID := uuid.New()
	video := &model.Video{ID: uuid.New(), Duration: 100, IsActive: true, AvailableFrom: now.Add(-time.Hour)}

	cfg := DefaultRewardsConfig()
	cfg.AntiCheat = AntiCheatConfig{GateOnSecurityScore: true, MinSecurityScore: 70}

	h := newWatchHarness(t, now, cfg)
	h.expectEligible(userID, video, silver(), now, 0)

	// exact-length playback without interactions scores 65
	result, err := h.service.SubmitVideoWatch(ctx, model.WatchSubmission{
		UserID:        userID,
		VideoID:       video.ID,
		WatchDuration: 100,
	})

	assert.ErrorIs(t, err, ErrSuspiciousWatch)
	assert.Equal(t, model.WatchStateRejected, result.State)
	assert.Equal(t, 65, result.SecurityScore)
}
