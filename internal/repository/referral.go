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
	"github.com/shopspring/decimal"
)

var activityColumns = []string{
	"id",
	"referrer_id",
	"referral_code",
	"referred_user_id",
	"status",
	"source",
	"reward_amount",
	"reward_paid_at",
	"ip_address",
	"user_agent",
	"metadata",
	"created_at",
	"updated_at",
}

type ReferralActivity struct {
	ID             uuid.UUID       `db:"id"`
	ReferrerID     uuid.UUID       `db:"referrer_id"`
	ReferralCode   string          `db:"referral_code"`
	ReferredUserID *uuid.UUID      `db:"referred_user_id"`
	Status         string          `db:"status"`
	Source         string          `db:"source"`
	RewardAmount   decimal.Decimal `db:"reward_amount"`
	RewardPaidAt   *time.Time      `db:"reward_paid_at"`
	IPAddress      string          `db:"ip_address"`
	UserAgent      string          `db:"user_agent"`
	Metadata       jsonMap         `db:"metadata"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (a *ReferralActivity) toModel() *model.ReferralActivity {
	return &model.ReferralActivity{
		ID:             a.ID,
		ReferrerID:     a.ReferrerID,
		ReferralCode:   a.ReferralCode,
		ReferredUserID: a.ReferredUserID,
		Status:         model.ReferralActivityStatus(a.Status),
		Source:         a.Source,
		RewardAmount:   a.RewardAmount,
		RewardPaidAt:   a.RewardPaidAt,
		IPAddress:      a.IPAddress,
		UserAgent:      a.UserAgent,
		Metadata:       a.Metadata,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func statusStrings(statuses []model.ReferralActivityStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *Repository) CreateReferralActivity(ctx context.Context, activity *model.ReferralActivity) error {
	query, args, err := squirrel.
		Insert("referral_activities").
		SetMap(map[string]interface{}{
			"id":               activity.ID,
			"referrer_id":      activity.ReferrerID,
			"referral_code":    activity.ReferralCode,
			"referred_user_id": activity.ReferredUserID,
			"status":           string(activity.Status),
			"source":           activity.Source,
			"reward_amount":    activity.RewardAmount,
			"reward_paid_at":   activity.RewardPaidAt,
			"ip_address":       activity.IPAddress,
			"user_agent":       activity.UserAgent,
			"metadata":         jsonMap(activity.Metadata),
			"created_at":       activity.CreatedAt,
			"updated_at":       activity.UpdatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert referral activity: %w", err)
	}
	return nil
}

// FindOpenVisit returns the latest VISITED activity for code from ipAddress that has not been
// claimed by a registration yet.
func (r *Repository) FindOpenVisit(ctx context.Context, code, ipAddress string) (*model.ReferralActivity, error) {
	query, args, err := squirrel.
		Select(activityColumns...).
		From("referral_activities").
		Where(squirrel.Eq{
			"referral_code":    code,
			"ip_address":       ipAddress,
			"status":           string(model.ReferralVisited),
			"referred_user_id": nil,
		}).
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row ReferralActivity
	if err = r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

// ClaimVisit attaches a registered user to a VISITED activity and moves it to REGISTERED.
func (r *Repository) ClaimVisit(ctx context.Context, activityID, referredUserID uuid.UUID, now time.Time) (bool, error) {
	query, args, err := squirrel.
		Update("referral_activities").
		Set("referred_user_id", referredUserID).
		Set("status", string(model.ReferralRegistered)).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"id":               activityID,
			"status":           string(model.ReferralVisited),
			"referred_user_id": nil,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to claim referral visit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AdvanceActivity moves the referrer/referred-user activity forward to status. Activities that
// are already at or past status are left untouched and false is returned.
func (r *Repository) AdvanceActivity(ctx context.Context, referrerID, referredUserID uuid.UUID, status model.ReferralActivityStatus, now time.Time) (bool, error) {
	preceding := status.Preceding()
	if len(preceding) == 0 {
		return false, nil
	}

	query, args, err := squirrel.
		Update("referral_activities").
		Set("status", string(status)).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"referrer_id":      referrerID,
			"referred_user_id": referredUserID,
			"status":           statusStrings(preceding),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to advance referral activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) AddActivityReward(ctx context.Context, referrerID, referredUserID uuid.UUID, amount decimal.Decimal, paidAt time.Time) error {
	query, args, err := squirrel.
		Update("referral_activities").
		Set("reward_amount", squirrel.Expr("reward_amount + ?", amount)).
		Set("reward_paid_at", paidAt).
		Set("updated_at", paidAt).
		Where(squirrel.Eq{
			"referrer_id":      referrerID,
			"referred_user_id": referredUserID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record activity reward: %w", err)
	}
	return nil
}

func (r *Repository) ListReferralActivities(ctx context.Context, referrerID uuid.UUID, limit int) ([]*model.ReferralActivity, error) {
	builder := squirrel.
		Select(activityColumns...).
		From("referral_activities").
		Where(squirrel.Eq{"referrer_id": referrerID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*ReferralActivity
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list referral activities: %w", err)
	}

	activities := make([]*model.ReferralActivity, len(rows))
	for i, row := range rows {
		activities[i] = row.toModel()
	}
	return activities, nil
}

type activitySummary struct {
	Total      int             `db:"total"`
	Registered int             `db:"registered"`
	Qualified  int             `db:"qualified"`
	Rewarded   int             `db:"rewarded"`
	Earnings   decimal.Decimal `db:"earnings"`
	Monthly    int             `db:"monthly"`
}

// SummarizeReferralActivities counts activities by how far they progressed. A referral counts
// as registered once it reached REGISTERED or any later status.
func (r *Repository) SummarizeReferralActivities(ctx context.Context, referrerID uuid.UUID, monthStart time.Time) (*model.ReferralStats, error) {
	query, args, err := squirrel.
		Select("COUNT(*) AS total").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status <> ?) AS registered", string(model.ReferralVisited))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status IN (?, ?)) AS qualified",
			string(model.ReferralQualified), string(model.ReferralRewarded))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?) AS rewarded", string(model.ReferralRewarded))).
		Column("COALESCE(SUM(reward_amount), 0) AS earnings").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE created_at >= ?) AS monthly", monthStart)).
		From("referral_activities").
		Where(squirrel.Eq{"referrer_id": referrerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row activitySummary
	if err = r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("failed to summarize referral activities: %w", err)
	}

	return &model.ReferralStats{
		TotalReferrals:      row.Total,
		RegisteredReferrals: row.Registered,
		QualifiedReferrals:  row.Qualified,
		RewardedReferrals:   row.Rewarded,
		TotalEarnings:       row.Earnings,
		MonthlyReferrals:    row.Monthly,
	}, nil
}

type ReferralReward struct {
	ID           uuid.UUID       `db:"id"`
	Name         string          `db:"name"`
	TriggerEvent string          `db:"trigger_event"`
	RewardAmount decimal.Decimal `db:"reward_amount"`
	IsActive     bool            `db:"is_active"`
}

func (r *Repository) GetReferralReward(ctx context.Context, trigger model.TriggerEvent) (*model.ReferralReward, error) {
	query, args, err := squirrel.
		Select("id", "name", "trigger_event", "reward_amount", "is_active").
		From("referral_rewards").
		Where(squirrel.Eq{"trigger_event": string(trigger)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row ReferralReward
	if err = r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.ReferralReward{
		ID:           row.ID,
		Name:         row.Name,
		TriggerEvent: model.TriggerEvent(row.TriggerEvent),
		RewardAmount: row.RewardAmount,
		IsActive:     row.IsActive,
	}, nil
}
