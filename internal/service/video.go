package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"

	"github.com/google/uuid"
)

type VideoService struct {
	repo      VideoRepository
	positions *PositionService
	now       func() time.Time
}

func NewVideoService(repo VideoRepository, positions *PositionService) *VideoService {
	return &VideoService{
		repo:      repo,
		positions: positions,
		now:       time.Now,
	}
}

// GetVideos lists what the user's position may watch right now, flagging today's watches.
func (s *VideoService) GetVideos(ctx context.Context, userID uuid.UUID) ([]*model.VideoListing, error) {
	position, err := s.positions.GetUserCurrentPosition(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	videos, err := s.repo.ListAvailableVideos(ctx, position.Position.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	watched, err := s.repo.WatchedVideoIDs(ctx, userID, model.DayWindowAt(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get watched videos: %w", err)
	}

	listings := make([]*model.VideoListing, len(videos))
	for i, video := range videos {
		listings[i] = &model.VideoListing{
			Video:        video,
			WatchedToday: watched[video.ID],
		}
	}
	return listings, nil
}

func (s *VideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	video, err := s.repo.GetVideo(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

func (s *VideoService) CreateVideo(ctx context.Context, video *model.Video) error {
	if video.Title == "" || video.URL == "" || video.Duration <= 0 {
		return fmt.Errorf("%w: title, url and a positive duration are required", ErrInvalidInput)
	}

	now := s.now()
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	if video.AvailableFrom.IsZero() {
		video.AvailableFrom = now
	}
	if video.AvailableTo != nil && !video.AvailableTo.After(video.AvailableFrom) {
		return fmt.Errorf("%w: availability window ends before it starts", ErrInvalidInput)
	}
	video.CreatedAt = now

	if err := s.repo.CreateVideo(ctx, video); err != nil {
		return err
	}
	return nil
}
