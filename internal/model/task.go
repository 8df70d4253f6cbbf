package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserVideoTask struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	VideoID       uuid.UUID
	WatchDay      time.Time
	WatchedAt     time.Time
	WatchDuration float64
	RewardEarned  decimal.Decimal
	PositionLevel string
	IPAddress     string
	DeviceID      string
	IsVerified    bool
	SecurityScore int
}

type WatchInteraction struct {
	Type string  `json:"type"`
	At   float64 `json:"at"`
}

type WatchSubmission struct {
	UserID           uuid.UUID
	VideoID          uuid.UUID
	WatchDuration    float64
	Interactions     []WatchInteraction
	VerificationData map[string]any
	IPAddress        string
	DeviceID         string
}

// WatchState is the lifecycle of one watch submission. IN_PROGRESS lives only on the client.
type WatchState string

const (
	WatchStateAvailable  WatchState = "AVAILABLE"
	WatchStateInProgress WatchState = "IN_PROGRESS"
	WatchStateSubmitted  WatchState = "SUBMITTED"
	WatchStateAccepted   WatchState = "ACCEPTED"
	WatchStateRejected   WatchState = "REJECTED"
)

func (s WatchState) IsTerminal() bool {
	return s == WatchStateAccepted || s == WatchStateRejected
}

type WatchResult struct {
	State                      WatchState      `json:"state"`
	TaskID                     uuid.UUID       `json:"task_id"`
	RewardEarned               decimal.Decimal `json:"reward_earned"`
	NewBalance                 decimal.Decimal `json:"new_balance"`
	TasksCompletedToday        int             `json:"tasks_completed_today"`
	DailyTaskLimit             int             `json:"daily_task_limit"`
	TasksRemaining             int             `json:"tasks_remaining"`
	SecurityScore              int             `json:"security_score"`
	ManagementBonusDistributed decimal.Decimal `json:"management_bonus_distributed"`
	BonusBreakdown             []BonusShare    `json:"bonus_breakdown"`
	TriggersFired              []TriggerEvent  `json:"triggers_fired"`
	RejectReason               string          `json:"reject_reason"`
}

// TaskReceipt is what the storage layer reports after atomically recording a task and its reward.
type TaskReceipt struct {
	Task                *UserVideoTask
	Transaction         *WalletTransaction
	NewBalance          decimal.Decimal
	TasksCompletedToday int
	TotalVideosBefore   int
	TotalVideosAfter    int
	TotalEarningsBefore decimal.Decimal
	TotalEarningsAfter  decimal.Decimal
}
