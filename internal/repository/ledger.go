package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

var transactionColumns = []string{
	"id",
	"user_id",
	"type",
	"amount",
	"balance_after",
	"description",
	"reference_id",
	"metadata",
	"status",
	"created_at",
}

type WalletTransaction struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	Type         string          `db:"type"`
	Amount       decimal.Decimal `db:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	Description  string          `db:"description"`
	ReferenceID  *string         `db:"reference_id"`
	Metadata     jsonMap         `db:"metadata"`
	Status       string          `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (t *WalletTransaction) toModel() *model.WalletTransaction {
	return &model.WalletTransaction{
		ID:           t.ID,
		UserID:       t.UserID,
		Type:         model.TransactionType(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Description:  t.Description,
		ReferenceID:  t.ReferenceID,
		Metadata:     t.Metadata,
		Status:       model.TransactionStatus(t.Status),
		CreatedAt:    t.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Credit adds entry.Amount to the user's wallet and records the matching transaction
// in one database transaction.
func (r *Repository) Credit(ctx context.Context, entry model.LedgerEntry) (*model.WalletTransaction, error) {
	if entry.Type.IsDebit() {
		return nil, fmt.Errorf("credit called with debit type %s", entry.Type)
	}
	return r.post(ctx, entry)
}

// Debit removes entry.Amount from the user's wallet. It fails with ErrInsufficientFunds
// instead of letting the balance go negative.
func (r *Repository) Debit(ctx context.Context, entry model.LedgerEntry) (*model.WalletTransaction, error) {
	if !entry.Type.IsDebit() {
		return nil, fmt.Errorf("debit called with credit type %s", entry.Type)
	}
	return r.post(ctx, entry)
}

func (r *Repository) post(ctx context.Context, entry model.LedgerEntry) (*model.WalletTransaction, error) {
	var result *model.WalletTransaction
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		user, err := r.lockUser(ctx, tx, entry.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive() {
			return ErrUserInactive
		}

		result, err = r.applyEntry(ctx, tx, user, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreditCapped credits at most the headroom left under the owner's management bonus caps.
// headroom receives the bonus income already booked today and this month. A nil transaction
// with a nil error means nothing was left to credit.
func (r *Repository) CreditCapped(
	ctx context.Context,
	entry model.LedgerEntry,
	day model.DayWindow,
	monthStart time.Time,
	headroom func(today, month decimal.Decimal) decimal.Decimal,
) (*model.WalletTransaction, error) {
	var result *model.WalletTransaction
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		user, err := r.lockUser(ctx, tx, entry.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive() {
			return ErrUserInactive
		}

		today, err := r.sumIncome(ctx, tx, entry.UserID, model.ManagementBonusTypes, day.Start, day.End)
		if err != nil {
			return fmt.Errorf("failed to sum daily bonuses: %w", err)
		}
		month, err := r.sumIncome(ctx, tx, entry.UserID, model.ManagementBonusTypes, monthStart, day.End)
		if err != nil {
			return fmt.Errorf("failed to sum monthly bonuses: %w", err)
		}

		allowed := model.RoundMoney(headroom(today, month))
		if allowed.GreaterThan(entry.Amount) {
			allowed = entry.Amount
		}
		if !allowed.IsPositive() {
			return nil
		}

		entry.Amount = allowed
		result, err = r.applyEntry(ctx, tx, user, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyEntry must run inside a transaction that already holds the user's row lock.
// It updates user in place so callers can chain entries.
func (r *Repository) applyEntry(ctx context.Context, tx *sqlx.Tx, user *model.User, entry model.LedgerEntry) (*model.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return nil, fmt.Errorf("ledger amount must be positive, got %s", entry.Amount)
	}

	var referenceID *string
	if entry.ReferenceID != "" {
		exists, err := r.referenceExists(ctx, tx, entry.ReferenceID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateReference
		}
		ref := entry.ReferenceID
		referenceID = &ref
	}

	balance := user.WalletBalance
	earnings := user.TotalEarnings
	if entry.Type.IsDebit() {
		if entry.Amount.GreaterThan(balance) {
			return nil, ErrInsufficientFunds
		}
		balance = balance.Sub(entry.Amount)
	} else {
		balance = balance.Add(entry.Amount)
		if entry.Type.CountsAsEarnings() {
			earnings = earnings.Add(entry.Amount)
		}
	}

	now := time.Now()
	query, args, err := squirrel.
		Update("users").
		Set("wallet_balance", balance).
		Set("total_earnings", earnings).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	txn := &model.WalletTransaction{
		ID:           uuid.New(),
		UserID:       user.ID,
		Type:         entry.Type,
		Amount:       entry.Amount,
		BalanceAfter: balance,
		Description:  entry.Description,
		ReferenceID:  referenceID,
		Metadata:     entry.Metadata,
		Status:       model.TransactionCompleted,
		CreatedAt:    now,

		EarningsAfter: earnings,
	}

	query, args, err = squirrel.
		Insert("wallet_transactions").
		SetMap(map[string]interface{}{
			"id":            txn.ID,
			"user_id":       txn.UserID,
			"type":          string(txn.Type),
			"amount":        txn.Amount,
			"balance_after": txn.BalanceAfter,
			"description":   txn.Description,
			"reference_id":  txn.ReferenceID,
			"metadata":      jsonMap(txn.Metadata),
			"status":        string(txn.Status),
			"created_at":    txn.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("failed to insert wallet transaction: %w", err)
	}

	user.WalletBalance = balance
	user.TotalEarnings = earnings
	return txn, nil
}

func (r *Repository) referenceExists(ctx context.Context, q sqlx.QueryerContext, referenceID string) (bool, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("wallet_transactions").
		Where(squirrel.Eq{"reference_id": referenceID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err = sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to check transaction reference: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) ReferenceExists(ctx context.Context, referenceID string) (bool, error) {
	return r.referenceExists(ctx, r.db, referenceID)
}

func typeStrings(types []model.TransactionType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func (r *Repository) sumIncome(ctx context.Context, q sqlx.QueryerContext, userID uuid.UUID, types []model.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(amount), 0)").
		From("wallet_transactions").
		Where(squirrel.Eq{
			"user_id": userID,
			"type":    typeStrings(types),
			"status":  string(model.TransactionCompleted),
		}).
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err = sqlx.GetContext(ctx, q, &total, query, args...); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *Repository) SumIncome(ctx context.Context, userID uuid.UUID, types []model.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	return r.sumIncome(ctx, r.db, userID, types, from, to)
}

type incomeRow struct {
	Type  string          `db:"type"`
	Total decimal.Decimal `db:"total"`
}

// SumIncomeByType groups completed credits in [from, to). A zero from means since the beginning.
func (r *Repository) SumIncomeByType(ctx context.Context, userID uuid.UUID, from, to time.Time) (model.IncomeByType, error) {
	builder := squirrel.
		Select("type", "COALESCE(SUM(amount), 0) AS total").
		From("wallet_transactions").
		Where(squirrel.Eq{
			"user_id": userID,
			"status":  string(model.TransactionCompleted),
		}).
		Where(squirrel.NotEq{"type": string(model.TransactionDebit)}).
		Where(squirrel.Lt{"created_at": to}).
		GroupBy("type").
		PlaceholderFormat(squirrel.Dollar)
	if !from.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"created_at": from})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []incomeRow
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}

	income := make(model.IncomeByType, len(rows))
	for _, row := range rows {
		income[model.TransactionType(row.Type)] = row.Total
	}
	return income, nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID uuid.UUID, filter model.TransactionFilter) ([]*model.WalletTransaction, error) {
	builder := squirrel.
		Select(transactionColumns...).
		From("wallet_transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if len(filter.Types) > 0 {
		builder = builder.Where(squirrel.Eq{"type": typeStrings(filter.Types)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*WalletTransaction
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]*model.WalletTransaction, len(rows))
	for i, row := range rows {
		txs[i] = row.toModel()
	}
	return txs, nil
}
