package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferralLevel is the distance between a user and one of their uplines: A is the direct referrer.
type ReferralLevel string

const (
	LevelA ReferralLevel = "A_LEVEL"
	LevelB ReferralLevel = "B_LEVEL"
	LevelC ReferralLevel = "C_LEVEL"
)

var ReferralLevels = []ReferralLevel{LevelA, LevelB, LevelC}

// MaxUplineDepth bounds every walk up the referral chain.
const MaxUplineDepth = 3

func LevelForDepth(depth int) (ReferralLevel, bool) {
	if depth < 1 || depth > len(ReferralLevels) {
		return "", false
	}
	return ReferralLevels[depth-1], true
}

func (l ReferralLevel) Depth() int {
	for i, level := range ReferralLevels {
		if level == l {
			return i + 1
		}
	}
	return 0
}

func (l ReferralLevel) Tier() string {
	switch l {
	case LevelA:
		return "A"
	case LevelB:
		return "B"
	case LevelC:
		return "C"
	}
	return ""
}

func (l ReferralLevel) ManagementBonusType() TransactionType {
	return TransactionType("MANAGEMENT_BONUS_" + l.Tier())
}

func (l ReferralLevel) ReferralRewardType() TransactionType {
	return TransactionType("REFERRAL_REWARD_" + l.Tier())
}

type ReferralHierarchy struct {
	ID         uuid.UUID
	ReferrerID uuid.UUID
	UserID     uuid.UUID
	Level      ReferralLevel
	CreatedAt  time.Time
}

type ReferralActivityStatus string

const (
	ReferralVisited    ReferralActivityStatus = "VISITED"
	ReferralRegistered ReferralActivityStatus = "REGISTERED"
	ReferralQualified  ReferralActivityStatus = "QUALIFIED"
	ReferralRewarded   ReferralActivityStatus = "REWARDED"
)

var referralStatusOrder = []ReferralActivityStatus{
	ReferralVisited,
	ReferralRegistered,
	ReferralQualified,
	ReferralRewarded,
}

func (s ReferralActivityStatus) Rank() int {
	for i, status := range referralStatusOrder {
		if status == s {
			return i
		}
	}
	return -1
}

// Preceding returns the statuses an activity may hold before moving to s.
// Activities only ever move forward.
func (s ReferralActivityStatus) Preceding() []ReferralActivityStatus {
	rank := s.Rank()
	if rank <= 0 {
		return nil
	}
	out := make([]ReferralActivityStatus, rank)
	copy(out, referralStatusOrder[:rank])
	return out
}

type ReferralActivity struct {
	ID             uuid.UUID              `json:"id"`
	ReferrerID     uuid.UUID              `json:"referrer_id"`
	ReferralCode   string                 `json:"referral_code"`
	ReferredUserID *uuid.UUID             `json:"referred_user_id"`
	Status         ReferralActivityStatus `json:"status"`
	Source         string                 `json:"source"`
	RewardAmount   decimal.Decimal        `json:"reward_amount"`
	RewardPaidAt   *time.Time             `json:"reward_paid_at"`
	IPAddress      string                 `json:"ip_address"`
	UserAgent      string                 `json:"user_agent"`
	Metadata       map[string]any         `json:"metadata"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type TriggerEvent string

const (
	TriggerRegistration   TriggerEvent = "registration"
	TriggerFirstVideo     TriggerEvent = "first_video"
	TriggerWeeklyActivity TriggerEvent = "weekly_activity"
	TriggerHighEarner     TriggerEvent = "high_earner"
)

type ReferralReward struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	TriggerEvent TriggerEvent    `json:"trigger_event"`
	RewardAmount decimal.Decimal `json:"reward_amount"`
	IsActive     bool            `json:"is_active"`
}

type ReferralVisit struct {
	ReferralCode string
	IPAddress    string
	UserAgent    string
	Source       string
	Metadata     map[string]any
}

type ReferralOutcome struct {
	Success      bool            `json:"success"`
	RewardAmount decimal.Decimal `json:"reward_amount"`
	ActivityID   uuid.UUID       `json:"activity_id"`
	Reason       string          `json:"reason"`
}

type ReferralStats struct {
	TotalReferrals      int                 `json:"total_referrals"`
	RegisteredReferrals int                 `json:"registered_referrals"`
	QualifiedReferrals  int                 `json:"qualified_referrals"`
	RewardedReferrals   int                 `json:"rewarded_referrals"`
	TotalEarnings       decimal.Decimal     `json:"total_earnings"`
	MonthlyReferrals    int                 `json:"monthly_referrals"`
	Activities          []*ReferralActivity `json:"activities"`
}

type HierarchyStats struct {
	Counts        map[ReferralLevel]int             `json:"counts"`
	Earnings      map[ReferralLevel]decimal.Decimal `json:"earnings"`
	TotalEarnings decimal.Decimal                   `json:"total_earnings"`
}

func (s *HierarchyStats) TotalCount() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

type Subordinate struct {
	UserID        uuid.UUID       `json:"user_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Level         ReferralLevel   `json:"level"`
	JoinedAt      time.Time       `json:"joined_at"`
	PositionName  *string         `json:"position_name"`
	PositionLevel *int            `json:"position_level"`
	IsActive      bool            `json:"is_active"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

type RewardHistory struct {
	Transactions []*WalletTransaction              `json:"transactions"`
	TotalsByTier map[ReferralLevel]decimal.Decimal `json:"totals_by_tier"`
	CountsByTier map[ReferralLevel]int             `json:"counts_by_tier"`
}
