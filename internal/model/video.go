package model

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	URL           string     `json:"url"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	Duration      int        `json:"duration"`
	PositionID    *uuid.UUID `json:"position_id"`
	IsActive      bool       `json:"is_active"`
	AvailableFrom time.Time  `json:"available_from"`
	AvailableTo   *time.Time `json:"available_to"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsAvailable reports whether the video is active and inside its availability window.
// A nil AvailableTo means the video never expires.
func (v *Video) IsAvailable(now time.Time) bool {
	if !v.IsActive || now.Before(v.AvailableFrom) {
		return false
	}
	return v.AvailableTo == nil || now.Before(*v.AvailableTo)
}

// IsVisibleTo reports whether a holder of the given position may watch the video.
func (v *Video) IsVisibleTo(positionID uuid.UUID) bool {
	return v.PositionID == nil || *v.PositionID == positionID
}

type VideoListing struct {
	Video        *Video `json:"video"`
	WatchedToday bool   `json:"watched_today"`
}
