package repository

import (
	"context"
	"fmt"
	"time"

	"rewards_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ReferralHierarchy struct {
	ID         uuid.UUID `db:"id"`
	ReferrerID uuid.UUID `db:"referrer_id"`
	UserID     uuid.UUID `db:"user_id"`
	Level      string    `db:"level"`
	CreatedAt  time.Time `db:"created_at"`
}

func (h *ReferralHierarchy) toModel() *model.ReferralHierarchy {
	return &model.ReferralHierarchy{
		ID:         h.ID,
		ReferrerID: h.ReferrerID,
		UserID:     h.UserID,
		Level:      model.ReferralLevel(h.Level),
		CreatedAt:  h.CreatedAt,
	}
}

// InsertHierarchy writes all upline rows of one user together. Rows that already exist are kept.
func (r *Repository) InsertHierarchy(ctx context.Context, rows []*model.ReferralHierarchy) error {
	if len(rows) == 0 {
		return nil
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		builder := squirrel.
			Insert("referral_hierarchy").
			Columns("id", "referrer_id", "user_id", "level", "created_at").
			Suffix("ON CONFLICT (referrer_id, user_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar)
		for _, row := range rows {
			builder = builder.Values(row.ID, row.ReferrerID, row.UserID, string(row.Level), row.CreatedAt)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert referral hierarchy: %w", err)
		}
		return nil
	})
}

// GetAncestors returns the upline rows of userID ordered from A to C level.
func (r *Repository) GetAncestors(ctx context.Context, userID uuid.UUID) ([]*model.ReferralHierarchy, error) {
	query, args, err := squirrel.
		Select("id", "referrer_id", "user_id", "level", "created_at").
		From("referral_hierarchy").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("level ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*ReferralHierarchy
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get ancestors: %w", err)
	}

	ancestors := make([]*model.ReferralHierarchy, len(rows))
	for i, row := range rows {
		ancestors[i] = row.toModel()
	}
	return ancestors, nil
}

type levelCount struct {
	Level string `db:"level"`
	Count int    `db:"count"`
}

func (r *Repository) CountSubordinatesByLevel(ctx context.Context, referrerID uuid.UUID) (map[model.ReferralLevel]int, error) {
	query, args, err := squirrel.
		Select("level", "COUNT(*) AS count").
		From("referral_hierarchy").
		Where(squirrel.Eq{"referrer_id": referrerID}).
		GroupBy("level").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []levelCount
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count subordinates: %w", err)
	}

	counts := make(map[model.ReferralLevel]int, len(model.ReferralLevels))
	for _, level := range model.ReferralLevels {
		counts[level] = 0
	}
	for _, row := range rows {
		counts[model.ReferralLevel(row.Level)] = row.Count
	}
	return counts, nil
}

type subordinate struct {
	UserID        uuid.UUID       `db:"user_id"`
	Name          string          `db:"name"`
	Email         string          `db:"email"`
	Level         string          `db:"level"`
	JoinedAt      time.Time       `db:"joined_at"`
	PositionName  *string         `db:"position_name"`
	PositionLevel *int            `db:"position_level"`
	Status        string          `db:"status"`
	TotalEarnings decimal.Decimal `db:"total_earnings"`
}

// GetSubordinates lists everyone below referrerID with their current position, if any.
func (r *Repository) GetSubordinates(ctx context.Context, referrerID uuid.UUID, now time.Time) ([]*model.Subordinate, error) {
	query, args, err := squirrel.
		Select(
			"u.id AS user_id",
			"u.name",
			"u.email",
			"h.level",
			"h.created_at AS joined_at",
			"p.name AS position_name",
			"p.level AS position_level",
			"u.status",
			"u.total_earnings",
		).
		From("referral_hierarchy h").
		Join("users u ON u.id = h.user_id").
		LeftJoin("user_positions up ON up.user_id = u.id AND up.status = ? AND up.end_date > ?",
			string(model.UserPositionActive), now).
		LeftJoin("positions p ON p.id = up.position_id").
		Where(squirrel.Eq{"h.referrer_id": referrerID}).
		OrderBy("h.level ASC", "h.created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*subordinate
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get subordinates: %w", err)
	}

	subs := make([]*model.Subordinate, len(rows))
	for i, row := range rows {
		subs[i] = &model.Subordinate{
			UserID:        row.UserID,
			Name:          row.Name,
			Email:         row.Email,
			Level:         model.ReferralLevel(row.Level),
			JoinedAt:      row.JoinedAt,
			PositionName:  row.PositionName,
			PositionLevel: row.PositionLevel,
			IsActive:      model.UserStatus(row.Status) == model.UserStatusActive,
			TotalEarnings: row.TotalEarnings,
		}
	}
	return subs, nil
}
