package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rewards_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var positionColumns = []string{
	"p.id",
	"p.name",
	"p.level",
	"p.tasks_per_day",
	"p.unit_price",
	"p.price",
	"p.validity_days",
	"p.is_active",
}

type Position struct {
	ID           uuid.UUID       `db:"id"`
	Name         string          `db:"name"`
	Level        int             `db:"level"`
	TasksPerDay  int             `db:"tasks_per_day"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	Price        decimal.Decimal `db:"price"`
	ValidityDays int             `db:"validity_days"`
	IsActive     bool            `db:"is_active"`
}

func (p *Position) toModel() *model.Position {
	return &model.Position{
		ID:           p.ID,
		Name:         p.Name,
		Level:        p.Level,
		TasksPerDay:  p.TasksPerDay,
		UnitPrice:    p.UnitPrice,
		Price:        p.Price,
		ValidityDays: p.ValidityDays,
		IsActive:     p.IsActive,
	}
}

type userPosition struct {
	Position
	AssignmentID uuid.UUID       `db:"assignment_id"`
	UserID       uuid.UUID       `db:"user_id"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      time.Time       `db:"end_date"`
	AmountPaid   decimal.Decimal `db:"amount_paid"`
	Status       string          `db:"status"`
}

func (p *userPosition) toModel() *model.UserPosition {
	return &model.UserPosition{
		ID:         p.AssignmentID,
		UserID:     p.UserID,
		Position:   p.Position.toModel(),
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		AmountPaid: p.AmountPaid,
		Status:     model.UserPositionStatus(p.Status),
	}
}

func (r *Repository) ListPositions(ctx context.Context) ([]*model.Position, error) {
	query, args, err := squirrel.
		Select(positionColumns...).
		From("positions p").
		Where(squirrel.Eq{"p.is_active": true}).
		OrderBy("p.level ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*Position
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	positions := make([]*model.Position, len(rows))
	for i, row := range rows {
		positions[i] = row.toModel()
	}
	return positions, nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID uuid.UUID) (*model.Position, error) {
	query, args, err := squirrel.
		Select(positionColumns...).
		From("positions p").
		Where(squirrel.Eq{"p.id": positionID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row Position
	if err = r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func currentPositionQuery(userID uuid.UUID, now time.Time) squirrel.SelectBuilder {
	columns := append([]string{
		"up.id AS assignment_id",
		"up.user_id",
		"up.start_date",
		"up.end_date",
		"up.amount_paid",
		"up.status",
	}, positionColumns...)

	return squirrel.
		Select(columns...).
		From("user_positions up").
		Join("positions p ON p.id = up.position_id").
		Where(squirrel.Eq{
			"up.user_id": userID,
			"up.status":  string(model.UserPositionActive),
		}).
		Where(squirrel.Gt{"up.end_date": now}).
		OrderBy("up.start_date DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)
}

// GetCurrentPosition returns the user's active, unexpired position or ErrNotFound.
func (r *Repository) GetCurrentPosition(ctx context.Context, userID uuid.UUID, now time.Time) (*model.UserPosition, error) {
	return r.getCurrentPosition(ctx, r.db, userID, now)
}

func (r *Repository) getCurrentPosition(ctx context.Context, q sqlx.QueryerContext, userID uuid.UUID, now time.Time) (*model.UserPosition, error) {
	query, args, err := currentPositionQuery(userID, now).ToSql()
	if err != nil {
		return nil, err
	}

	var row userPosition
	if err = sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

// PurchasePosition debits the position price and assigns it to the user in one transaction.
// Lapsed assignments are marked EXPIRED first so that the partial unique index on ACTIVE rows
// only ever sees the new one.
func (r *Repository) PurchasePosition(ctx context.Context, purchase model.PositionPurchase) (*model.UserPosition, *model.WalletTransaction, error) {
	var (
		assigned *model.UserPosition
		debit    *model.WalletTransaction
	)
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		user, err := r.lockUser(ctx, tx, purchase.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive() {
			return ErrUserInactive
		}

		query, args, err := squirrel.
			Update("user_positions").
			Set("status", string(model.UserPositionExpired)).
			Where(squirrel.Eq{
				"user_id": purchase.UserID,
				"status":  string(model.UserPositionActive),
			}).
			Where(squirrel.LtOrEq{"end_date": purchase.StartDate}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to expire positions: %w", err)
		}

		_, err = r.getCurrentPosition(ctx, tx, purchase.UserID, purchase.StartDate)
		if err == nil {
			return ErrPositionAlreadyActive
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		amountPaid := decimal.Zero
		if purchase.Debit != nil {
			debit, err = r.applyEntry(ctx, tx, user, *purchase.Debit)
			if err != nil {
				return err
			}
			amountPaid = debit.Amount
		}

		assigned = &model.UserPosition{
			ID:         uuid.New(),
			UserID:     purchase.UserID,
			Position:   purchase.Position,
			StartDate:  purchase.StartDate,
			EndDate:    purchase.EndDate,
			AmountPaid: amountPaid,
			Status:     model.UserPositionActive,
		}

		query, args, err = squirrel.
			Insert("user_positions").
			SetMap(map[string]interface{}{
				"id":          assigned.ID,
				"user_id":     assigned.UserID,
				"position_id": purchase.Position.ID,
				"start_date":  assigned.StartDate,
				"end_date":    assigned.EndDate,
				"amount_paid": assigned.AmountPaid,
				"status":      string(assigned.Status),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return ErrPositionAlreadyActive
			}
			return fmt.Errorf("failed to assign position: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return assigned, debit, nil
}
