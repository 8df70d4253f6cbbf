package service

import (
	"context"
	"errors"
	"time"

	"rewards_engine/internal/metrics"
	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("account is not active")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email address already exists")
	ErrInvalidInput       = errors.New("invalid input")

	ErrNoActivePosition      = errors.New("no active position")
	ErrPositionNotFound      = errors.New("position not found")
	ErrPositionAlreadyActive = errors.New("you already have an active plan")

	ErrVideoNotFound        = errors.New("video not found or unavailable")
	ErrWatchTooShort        = errors.New("not watched long enough")
	ErrInvalidWatchDuration = errors.New("invalid watch duration")
	ErrAlreadyWatchedToday  = errors.New("video already watched today")
	ErrDailyLimitReached    = errors.New("daily task limit reached")
	ErrSuspiciousWatch      = errors.New("watch session failed verification")

	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrDuplicateReward   = errors.New("reward already paid")
	ErrHierarchyCycle    = errors.New("referral chain contains a cycle")
)

var softFailures = []error{
	ErrNoActivePosition,
	ErrDailyLimitReached,
	ErrAlreadyWatchedToday,
	ErrWatchTooShort,
	ErrInvalidWatchDuration,
	ErrSuspiciousWatch,
	ErrInsufficientFunds,
	ErrPositionAlreadyActive,
}

// IsSoftFailure reports whether err is a routine user-facing outcome rather than a fault.
func IsSoftFailure(err error) bool {
	for _, soft := range softFailures {
		if errors.Is(err, soft) {
			return true
		}
	}
	return false
}

type Service struct {
	Users     *UserService
	Positions *PositionService
	Videos    *VideoService
	Watch     *WatchService
	Ledger    *LedgerService
	Hierarchy *HierarchyService
	Referrals *ReferralService
	Bonuses   *BonusService
	Dashboard *DashboardService
}

// New wires every service over one repository. cache may be nil.
func New(repo *repository.Repository, cache DashboardCache, m *metrics.Metrics, cfg RewardsConfig, policy AuthPolicy) *Service {
	ledger := NewLedgerService(repo, m)
	positions := NewPositionService(repo, ledger)
	hierarchy := NewHierarchyService(repo, ledger)
	referrals := NewReferralService(repo, ledger, hierarchy, m, cfg)
	bonuses := NewBonusService(hierarchy, ledger, m, cfg)
	dashboard := NewDashboardService(repo, positions, ledger, hierarchy, bonuses, cache, cfg)
	positions.dashboards = dashboard
	watchLedger(ledger, referrals, dashboard)

	return &Service{
		Users:     NewUserService(repo, referrals, policy),
		Positions: positions,
		Videos:    NewVideoService(repo, positions),
		Watch:     NewWatchService(repo, positions, ledger, bonuses, referrals, dashboard, m, cfg),
		Ledger:    ledger,
		Hierarchy: hierarchy,
		Referrals: referrals,
		Bonuses:   bonuses,
		Dashboard: dashboard,
	}
}

// watchLedger keeps cached dashboards and the high earner milestone in step with every
// entry posted through the ledger service.
func watchLedger(ledger *LedgerService, referrals *ReferralService, dashboard *DashboardService) {
	ledger.OnPosted(dashboard.InvalidateOwner)
	ledger.OnPosted(referrals.QualifyHighEarner)
}

type UserServiceI interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, *model.ReferralOutcome, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUserReferrals(ctx context.Context, userID uuid.UUID) ([]*model.UserReferral, error)
}

type PositionServiceI interface {
	GetPositions(ctx context.Context) ([]*model.Position, error)
	GetUserCurrentPosition(ctx context.Context, userID uuid.UUID) (*model.UserPosition, error)
	CanCompleteTask(ctx context.Context, userID uuid.UUID) (*model.TaskEligibility, error)
	SubscribePosition(ctx context.Context, userID, positionID uuid.UUID) (*model.UserPosition, error)
}

type VideoServiceI interface {
	GetVideos(ctx context.Context, userID uuid.UUID) ([]*model.VideoListing, error)
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	CreateVideo(ctx context.Context, video *model.Video) error
}

type WatchServiceI interface {
	SubmitVideoWatch(ctx context.Context, submission model.WatchSubmission) (*model.WatchResult, error)
}

type WalletServiceI interface {
	GetTransactions(ctx context.Context, userID uuid.UUID, filter model.TransactionFilter) ([]*model.WalletTransaction, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.WalletTransaction, error)
	GetRewardHistory(ctx context.Context, userID uuid.UUID) (*model.RewardHistory, error)
}

type ReferralServiceI interface {
	TrackReferralVisit(ctx context.Context, visit model.ReferralVisit) (*model.ReferralOutcome, error)
	GetReferralStats(ctx context.Context, userID uuid.UUID) (*model.ReferralStats, error)
	ReferralLink(code string) string
}

type HierarchyServiceI interface {
	GetReferralHierarchyStats(ctx context.Context, userID uuid.UUID) (*model.HierarchyStats, error)
	GetSubordinates(ctx context.Context, userID uuid.UUID) (map[model.ReferralLevel][]*model.Subordinate, error)
}

type DashboardServiceI interface {
	GetDashboardStats(ctx context.Context, userID uuid.UUID) (*model.DashboardStats, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	RecordLoginFailure(ctx context.Context, userID uuid.UUID, maxAttempts int, lockFor time.Duration) error
	ResetLoginFailures(ctx context.Context, userID uuid.UUID) error
	GetUserReferrals(ctx context.Context, userID uuid.UUID) ([]*model.UserReferral, error)
}

type PositionRepository interface {
	ListPositions(ctx context.Context) ([]*model.Position, error)
	GetPosition(ctx context.Context, positionID uuid.UUID) (*model.Position, error)
	GetCurrentPosition(ctx context.Context, userID uuid.UUID, now time.Time) (*model.UserPosition, error)
	CountTasks(ctx context.Context, userID uuid.UUID, window model.DayWindow) (int, error)
	PurchasePosition(ctx context.Context, purchase model.PositionPurchase) (*model.UserPosition, *model.WalletTransaction, error)
}

type LedgerRepository interface {
	Credit(ctx context.Context, entry model.LedgerEntry) (*model.WalletTransaction, error)
	Debit(ctx context.Context, entry model.LedgerEntry) (*model.WalletTransaction, error)
	CreditCapped(
		ctx context.Context,
		entry model.LedgerEntry,
		day model.DayWindow,
		monthStart time.Time,
		headroom func(today, month decimal.Decimal) decimal.Decimal,
	) (*model.WalletTransaction, error)
	ReferenceExists(ctx context.Context, referenceID string) (bool, error)
	SumIncome(ctx context.Context, userID uuid.UUID, types []model.TransactionType, from, to time.Time) (decimal.Decimal, error)
	SumIncomeByType(ctx context.Context, userID uuid.UUID, from, to time.Time) (model.IncomeByType, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter model.TransactionFilter) ([]*model.WalletTransaction, error)
}

type VideoRepository interface {
	ListAvailableVideos(ctx context.Context, positionID uuid.UUID, now time.Time) ([]*model.Video, error)
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	CreateVideo(ctx context.Context, video *model.Video) error
	WatchedVideoIDs(ctx context.Context, userID uuid.UUID, window model.DayWindow) (map[uuid.UUID]bool, error)
}

type WatchRepository interface {
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	HasWatched(ctx context.Context, userID, videoID uuid.UUID, window model.DayWindow) (bool, error)
	CompleteWatchTask(
		ctx context.Context,
		task *model.UserVideoTask,
		entry model.LedgerEntry,
		window model.DayWindow,
		dailyLimit int,
	) (*model.TaskReceipt, error)
}

type HierarchyRepository interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	InsertHierarchy(ctx context.Context, rows []*model.ReferralHierarchy) error
	GetAncestors(ctx context.Context, userID uuid.UUID) ([]*model.ReferralHierarchy, error)
	CountSubordinatesByLevel(ctx context.Context, referrerID uuid.UUID) (map[model.ReferralLevel]int, error)
	GetSubordinates(ctx context.Context, referrerID uuid.UUID, now time.Time) ([]*model.Subordinate, error)
}

type ReferralRepository interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	CreateReferralActivity(ctx context.Context, activity *model.ReferralActivity) error
	FindOpenVisit(ctx context.Context, code, ipAddress string) (*model.ReferralActivity, error)
	ClaimVisit(ctx context.Context, activityID, referredUserID uuid.UUID, now time.Time) (bool, error)
	AdvanceActivity(ctx context.Context, referrerID, referredUserID uuid.UUID, status model.ReferralActivityStatus, now time.Time) (bool, error)
	AddActivityReward(ctx context.Context, referrerID, referredUserID uuid.UUID, amount decimal.Decimal, paidAt time.Time) error
	ListReferralActivities(ctx context.Context, referrerID uuid.UUID, limit int) ([]*model.ReferralActivity, error)
	SummarizeReferralActivities(ctx context.Context, referrerID uuid.UUID, monthStart time.Time) (*model.ReferralStats, error)
	GetReferralReward(ctx context.Context, trigger model.TriggerEvent) (*model.ReferralReward, error)
}

// DashboardCache stores rendered dashboards. Implementations must treat a miss as (false, nil).
type DashboardCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
