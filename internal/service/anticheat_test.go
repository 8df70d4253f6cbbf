package service

import (
	"testing"

	"rewards_engine/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidateWatch(t *testing.T) {
	tests := []struct {
		name          string
		watchDuration float64
		videoDuration int
		expectedError error
	}{
		{name: "Just below 80 percent", watchDuration: 79, videoDuration: 100, expectedError: ErrWatchTooShort},
		{name: "Exactly 80 percent", watchDuration: 80, videoDuration: 100},
		{name: "Exactly twice the length", watchDuration: 200, videoDuration: 100},
		{name: "Over twice the length", watchDuration: 201, videoDuration: 100, expectedError: ErrInvalidWatchDuration},
		{name: "Short video still needs 30 seconds", watchDuration: 25, videoDuration: 20, expectedError: ErrWatchTooShort},
		{name: "Short video at 30 seconds", watchDuration: 30, videoDuration: 20},
		{name: "Negative duration", watchDuration: -5, videoDuration: 100, expectedError: ErrWatchTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWatch(tt.watchDuration, tt.videoDuration)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.True(t, IsSoftFailure(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSecurityScore(t *testing.T) {
	clicks := []model.WatchInteraction{{Type: "play", At: 0}, {Type: "pause", At: 42}}

	tests := []struct {
		name          string
		watchDuration float64
		interactions  []model.WatchInteraction
		expected      int
	}{
		{name: "Normal session", watchDuration: 85, interactions: clicks, expected: 100},
		{name: "No interactions", watchDuration: 85, expected: 80},
		{name: "Exact length playback", watchDuration: 100.5, interactions: clicks, expected: 85},
		{name: "Too short", watchDuration: 50, interactions: clicks, expected: 70},
		{name: "Overlong without interactions", watchDuration: 160, expected: 70},
		{name: "Everything suspicious", watchDuration: 10, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SecurityScore(tt.watchDuration, 100, tt.interactions))
		})
	}
}

func TestAntiCheatConfig_Verdict(t *testing.T) {
	t.Run("Audit only by default", func(t *testing.T) {
		score, err := AntiCheatConfig{}.Verdict(100, 100, nil)
		assert.NoError(t, err)
		assert.Equal(t, 65, score)
	})

	t.Run("Gated below minimum", func(t *testing.T) {
		cfg := AntiCheatConfig{GateOnSecurityScore: true, MinSecurityScore: 70}
		score, err := cfg.Verdict(100, 100, nil)
		assert.ErrorIs(t, err, ErrSuspiciousWatch)
		assert.Equal(t, 65, score)
	})

	t.Run("Duration rules win over gating", func(t *testing.T) {
		cfg := AntiCheatConfig{GateOnSecurityScore: true, MinSecurityScore: 70}
		_, err := cfg.Verdict(79, 100, nil)
		assert.ErrorIs(t, err, ErrWatchTooShort)
	})
}
