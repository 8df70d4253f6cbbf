package service

import (
	"context"
	"testing"
	"time"

	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"
	"rewards_engine/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newVideoService(t *testing.T, now time.Time) (*VideoService, *mocks.MockVideoRepository, *mocks.MockPositionRepository) {
	videoRepo := mocks.NewMockVideoRepository(t)
	posRepo := mocks.NewMockPositionRepository(t)
	clock := func() time.Time { return now }

	positions := NewPositionService(posRepo, NewLedgerService(mocks.NewMockLedgerRepository(t), nil))
	positions.now = clock
	s := NewVideoService(videoRepo, positions)
	s.now = clock
	return s, videoRepo, posRepo
}

func TestVideoService_GetVideos(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	position := silver()

	t.Run("Flags today's watches", func(t *testing.T) {
		s, videoRepo, posRepo := newVideoService(t, now)
		watched := &model.Video{ID: uuid.New(), Title: "Watched"}
		fresh := &model.Video{ID: uuid.New(), Title: "Fresh"}

		posRepo.On("GetCurrentPosition", mock.Anything, userID, now).Return(&model.UserPosition{Position: position, Status: model.UserPositionActive}, nil).Once()
		videoRepo.On("ListAvailableVideos", mock.Anything, position.ID, now).Return([]*model.Video{watched, fresh}, nil).Once()
		videoRepo.On("WatchedVideoIDs", mock.Anything, userID, model.DayWindowAt(now)).Return(map[uuid.UUID]bool{watched.ID: true}, nil).Once()

		listings, err := s.GetVideos(ctx, userID)
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.True(t, listings[0].WatchedToday)
		assert.False(t, listings[1].WatchedToday)
	})

	t.Run("No position", func(t *testing.T) {
		s, _, posRepo := newVideoService(t, now)
		posRepo.On("GetCurrentPosition", mock.Anything, userID, now).Return(nil, repository.ErrNotFound).Once()

		_, err := s.GetVideos(ctx, userID)
		assert.ErrorIs(t, err, ErrNoActivePosition)
	})
}

func TestVideoService_CreateVideo(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Defaults", func(t *testing.T) {
		s, videoRepo, _ := newVideoService(t, now)
		videoRepo.On("CreateVideo", mock.Anything, mock.AnythingOfType("*model.Video")).Return(nil).Once()

		video := &model.Video{Title: "Onboarding", URL: "https://cdn.example.com/v/1.mp4", Duration: 120, IsActive: true}
		require.NoError(t, s.CreateVideo(ctx, video))
		assert.NotEqual(t, uuid.Nil, video.ID)
		assert.Equal(t, now, video.AvailableFrom)
		assert.Equal(t, now, video.CreatedAt)
	})

	t.Run("Invalid", func(t *testing.T) {
		s, _, _ := newVideoService(t, now)
		before := now.Add(-time.Hour)

		tests := []*model.Video{
			{URL: "https://cdn.example.com/v/1.mp4", Duration: 120},
			{Title: "No url", Duration: 120},
			{Title: "Zero", URL: "https://cdn.example.com/v/1.mp4"},
			{Title: "Backwards", URL: "https://cdn.example.com/v/1.mp4", Duration: 60, AvailableFrom: now, AvailableTo: &before},
		}
		for _, video := range tests {
			assert.ErrorIs(t, s.CreateVideo(ctx, video), ErrInvalidInput)
		}
	})
}

func TestVideoService_GetVideo(t *testing.T) {
	s, videoRepo, _ := newVideoService(t, time.Now())
	videoID := uuid.New()
	videoRepo.On("GetVideo", mock.Anything, videoID).Return(nil, repository.ErrNotFound).Once()

	_, err := s.GetVideo(context.Background(), videoID)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
