package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTaskIncome       TransactionType = "TASK_INCOME"
	TransactionReferralRewardA  TransactionType = "REFERRAL_REWARD_A"
	TransactionReferralRewardB  TransactionType = "REFERRAL_REWARD_B"
	TransactionReferralRewardC  TransactionType = "REFERRAL_REWARD_C"
	TransactionManagementBonusA TransactionType = "MANAGEMENT_BONUS_A"
	TransactionManagementBonusB TransactionType = "MANAGEMENT_BONUS_B"
	TransactionManagementBonusC TransactionType = "MANAGEMENT_BONUS_C"
	TransactionCredit           TransactionType = "CREDIT"
	TransactionDebit            TransactionType = "DEBIT"
)

var (
	ReferralRewardTypes = []TransactionType{
		TransactionReferralRewardA,
		TransactionReferralRewardB,
		TransactionReferralRewardC,
	}
	ManagementBonusTypes = []TransactionType{
		TransactionManagementBonusA,
		TransactionManagementBonusB,
		TransactionManagementBonusC,
	}
)

// IsDebit reports whether the type decreases the wallet. Amounts are always stored positive.
func (t TransactionType) IsDebit() bool {
	return t == TransactionDebit
}

func (t TransactionType) IsReferralReward() bool {
	for _, rt := range ReferralRewardTypes {
		if t == rt {
			return true
		}
	}
	return false
}

func (t TransactionType) IsManagementBonus() bool {
	for _, bt := range ManagementBonusTypes {
		if t == bt {
			return true
		}
	}
	return false
}

// CountsAsEarnings reports whether a credit of this type increases lifetime earnings.
// Plain CREDIT rows are refunds and adjustments, not income.
func (t TransactionType) CountsAsEarnings() bool {
	return t == TransactionTaskIncome || t.IsReferralReward() || t.IsManagementBonus()
}

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionPending   TransactionStatus = "PENDING"
	TransactionFailed    TransactionStatus = "FAILED"
)

type WalletTransaction struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Type         TransactionType   `json:"type"`
	Amount       decimal.Decimal   `json:"amount"`
	BalanceAfter decimal.Decimal   `json:"balance_after"`
	Description  string            `json:"description"`
	ReferenceID  *string           `json:"reference_id"`
	Metadata     map[string]any    `json:"metadata"`
	Status       TransactionStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`

	// EarningsAfter is the owner's lifetime earnings right after this entry. Only entries
	// returned by a ledger write carry it.
	EarningsAfter decimal.Decimal `json:"-"`
}

func (t *WalletTransaction) SignedAmount() decimal.Decimal {
	if t.Type.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// LedgerEntry is a request to move money in or out of one user's wallet.
// A non-empty ReferenceID makes the entry idempotent: a second entry with the same
// reference is refused by the ledger.
type LedgerEntry struct {
	UserID      uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	ReferenceID string
	Metadata    map[string]any
}

// ReplayBalance sums completed transactions in creation order. For any user the result
// must equal the stored wallet balance.
func ReplayBalance(txs []*WalletTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		if tx.Status != TransactionCompleted {
			continue
		}
		balance = balance.Add(tx.SignedAmount())
	}
	return balance
}

type TransactionFilter struct {
	Types  []TransactionType
	Limit  int
	Offset int
}

func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
