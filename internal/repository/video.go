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
)

var videoColumns = []string{
	"id",
	"title",
	"description",
	"url",
	"thumbnail_url",
	"duration",
	"position_id",
	"is_active",
	"available_from",
	"available_to",
	"created_at",
}

type Video struct {
	ID            uuid.UUID  `db:"id"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	URL           string     `db:"url"`
	ThumbnailURL  string     `db:"thumbnail_url"`
	Duration      int        `db:"duration"`
	PositionID    *uuid.UUID `db:"position_id"`
	IsActive      bool       `db:"is_active"`
	AvailableFrom time.Time  `db:"available_from"`
	AvailableTo   *time.Time `db:"available_to"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (v *Video) toModel() *model.Video {
	return &model.Video{
		ID:            v.ID,
		Title:         v.Title,
		Description:   v.Description,
		URL:           v.URL,
		ThumbnailURL:  v.ThumbnailURL,
		Duration:      v.Duration,
		PositionID:    v.PositionID,
		IsActive:      v.IsActive,
		AvailableFrom: v.AvailableFrom,
		AvailableTo:   v.AvailableTo,
		CreatedAt:     v.CreatedAt,
	}
}

// ListAvailableVideos returns active videos inside their availability window that are open
// to every position or restricted to positionID.
func (r *Repository) ListAvailableVideos(ctx context.Context, positionID uuid.UUID, now time.Time) ([]*model.Video, error) {
	query, args, err := squirrel.
		Select(videoColumns...).
		From("videos").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.LtOrEq{"available_from": now}).
		Where(squirrel.Or{
			squirrel.Eq{"available_to": nil},
			squirrel.Gt{"available_to": now},
		}).
		Where(squirrel.Or{
			squirrel.Eq{"position_id": nil},
			squirrel.Eq{"position_id": positionID},
		}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*Video
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	videos := make([]*model.Video, len(rows))
	for i, row := range rows {
		videos[i] = row.toModel()
	}
	return videos, nil
}

func (r *Repository) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	query, args, err := squirrel.
		Select(videoColumns...).
		From("videos").
		Where(squirrel.Eq{"id": videoID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row Video
	if err = r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *Repository) CreateVideo(ctx context.Context, video *model.Video) error {
	query, args, err := squirrel.
		Insert("videos").
		SetMap(map[string]interface{}{
			"id":             video.ID,
			"title":          video.Title,
			"description":    video.Description,
			"url":            video.URL,
			"thumbnail_url":  video.ThumbnailURL,
			"duration":       video.Duration,
			"position_id":    video.PositionID,
			"is_active":      video.IsActive,
			"available_from": video.AvailableFrom,
			"available_to":   video.AvailableTo,
			"created_at":     video.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build video insert query: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}
