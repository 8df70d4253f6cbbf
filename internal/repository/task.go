package repository

import (
	"context"
	"fmt"

	"rewards_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CompleteWatchTask records an accepted watch and pays for it. Under the user's row lock it
// re-checks the per-day uniqueness and the daily limit, so two concurrent submissions can
// never both be paid.
func (r *Repository) CompleteWatchTask(
	ctx context.Context,
	task *model.UserVideoTask,
	entry model.LedgerEntry,
	window model.DayWindow,
	dailyLimit int,
) (*model.TaskReceipt, error) {
	var receipt *model.TaskReceipt
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		user, err := r.lockUser(ctx, tx, task.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive() {
			return ErrUserInactive
		}

		watched, err := r.hasWatched(ctx, tx, task.UserID, task.VideoID, window)
		if err != nil {
			return err
		}
		if watched {
			return ErrAlreadyWatchedToday
		}

		completed, err := r.countTasks(ctx, tx, task.UserID, window)
		if err != nil {
			return err
		}
		if completed >= dailyLimit {
			return ErrDailyLimitReached
		}

		query, args, err := squirrel.
			Insert("user_video_tasks").
			SetMap(map[string]interface{}{
				"id":             task.ID,
				"user_id":        task.UserID,
				"video_id":       task.VideoID,
				"watch_day":      window.Start,
				"watched_at":     task.WatchedAt,
				"watch_duration": task.WatchDuration,
				"reward_earned":  task.RewardEarned,
				"position_level": task.PositionLevel,
				"ip_address":     task.IPAddress,
				"device_id":      task.DeviceID,
				"is_verified":    task.IsVerified,
				"security_score": task.SecurityScore,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyWatchedToday
			}
			return fmt.Errorf("failed to insert video task: %w", err)
		}

		query, args, err = squirrel.
			Update("users").
			Set("total_videos_watched", squirrel.Expr("total_videos_watched + 1")).
			Where(squirrel.Eq{"id": task.UserID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to update video counter: %w", err)
		}

		videosBefore := user.TotalVideosWatched
		earningsBefore := user.TotalEarnings

		txn, err := r.applyEntry(ctx, tx, user, entry)
		if err != nil {
			return err
		}

		task.WatchDay = window.Start
		receipt = &model.TaskReceipt{
			Task:                task,
			Transaction:         txn,
			NewBalance:          user.WalletBalance,
			TasksCompletedToday: completed + 1,
			TotalVideosBefore:   videosBefore,
			TotalVideosAfter:    videosBefore + 1,
			TotalEarningsBefore: earningsBefore,
			TotalEarningsAfter:  user.TotalEarnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (r *Repository) countTasks(ctx context.Context, q sqlx.QueryerContext, userID uuid.UUID, window model.DayWindow) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("user_video_tasks").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"watched_at": window.Start}).
		Where(squirrel.Lt{"watched_at": window.End}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err = sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (r *Repository) CountTasks(ctx context.Context, userID uuid.UUID, window model.DayWindow) (int, error) {
	return r.countTasks(ctx, r.db, userID, window)
}

func (r *Repository) hasWatched(ctx context.Context, q sqlx.QueryerContext, userID, videoID uuid.UUID, window model.DayWindow) (bool, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("user_video_tasks").
		Where(squirrel.Eq{
			"user_id":   userID,
			"video_id":  videoID,
			"watch_day": window.Start,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err = sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to check watched video: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) HasWatched(ctx context.Context, userID, videoID uuid.UUID, window model.DayWindow) (bool, error) {
	return r.hasWatched(ctx, r.db, userID, videoID, window)
}

func (r *Repository) WatchedVideoIDs(ctx context.Context, userID uuid.UUID, window model.DayWindow) (map[uuid.UUID]bool, error) {
	query, args, err := squirrel.
		Select("video_id").
		From("user_video_tasks").
		Where(squirrel.Eq{
			"user_id":   userID,
			"watch_day": window.Start,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	if err = r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list watched videos: %w", err)
	}

	watched := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		watched[id] = true
	}
	return watched, nil
}
