package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReplayBalance(t *testing.T) {
	txs := []*WalletTransaction{
		{Type: TransactionCredit, Amount: amount("100.00"), Status: TransactionCompleted},
		{Type: TransactionDebit, Amount: amount("50.00"), Status: TransactionCompleted},
		{Type: TransactionTaskIncome, Amount: amount("2.00"), Status: TransactionCompleted},
		{Type: TransactionManagementBonusA, Amount: amount("0.20"), Status: TransactionCompleted},
		{Type: TransactionDebit, Amount: amount("30.00"), Status: TransactionFailed},
		{Type: TransactionReferralRewardA, Amount: amount("5.00"), Status: TransactionPending},
	}

	assert.True(t, amount("52.20").Equal(ReplayBalance(txs)))
	assert.True(t, ReplayBalance(nil).IsZero())
}

func TestTransactionType_Classification(t *testing.T) {
	tests := []struct {
		txType          TransactionType
		debit           bool
		referralReward  bool
		managementBonus bool
		earnings        bool
	}{
		{TransactionTaskIncome, false, false, false, true},
		{TransactionReferralRewardB, false, true, false, true},
		{TransactionManagementBonusC, false, false, true, true},
		{TransactionCredit, false, false, false, false},
		{TransactionDebit, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			assert.Equal(t, tt.debit, tt.txType.IsDebit())
			assert.Equal(t, tt.referralReward, tt.txType.IsReferralReward())
			assert.Equal(t, tt.managementBonus, tt.txType.IsManagementBonus())
			assert.Equal(t, tt.earnings, tt.txType.CountsAsEarnings())
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "1.01", RoundMoney(amount("1.005")).StringFixed(2))
	assert.Equal(t, "0.17", RoundMoney(amount("0.1665")).StringFixed(2))
	assert.Equal(t, "2.00", RoundMoney(amount("2")).StringFixed(2))
}

func TestIncomeByType_Streams(t *testing.T) {
	income := IncomeByType{
		TransactionTaskIncome:       amount("6.00"),
		TransactionReferralRewardA:  amount("5.00"),
		TransactionReferralRewardC:  amount("1.00"),
		TransactionManagementBonusA: amount("0.20"),
		TransactionManagementBonusB: amount("0.10"),
		TransactionCredit:           amount("99.00"),
	}

	streams := income.Streams()
	assert.True(t, amount("6.00").Equal(streams.TaskIncome))
	assert.True(t, amount("6.00").Equal(streams.ReferralRewards))
	assert.True(t, amount("0.30").Equal(streams.ManagementBonuses))
	assert.True(t, amount("12.30").Equal(streams.Total()))

	empty := IncomeByType{}.Streams()
	assert.True(t, empty.Total().IsZero())
}
