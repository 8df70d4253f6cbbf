package service

import (
	"math"

	"rewards_engine/internal/model"
)

const (
	minWatchSeconds  = 30
	maxSecurityScore = 100
)

// MinimumWatch is the shortest watch that earns a reward: 80% of the video, never less than 30s.
func MinimumWatch(videoDuration int) float64 {
	return math.Max(float64(videoDuration)*4/5, minWatchSeconds)
}

// MaximumWatch is the longest plausible watch for a video.
func MaximumWatch(videoDuration int) float64 {
	return float64(videoDuration) * 2
}

// ValidateWatch applies the duration rules in order. It does not look at history, so the
// once-per-day rule is enforced separately.
func ValidateWatch(watchDuration float64, videoDuration int) error {
	if watchDuration < MinimumWatch(videoDuration) {
		return ErrWatchTooShort
	}
	if watchDuration > MaximumWatch(videoDuration) {
		return ErrInvalidWatchDuration
	}
	return nil
}

// SecurityScore rates how human a watch session looks, from 0 to 100.
func SecurityScore(watchDuration float64, videoDuration int, interactions []model.WatchInteraction) int {
	duration := float64(videoDuration)
	score := maxSecurityScore

	if watchDuration < duration*4/5 {
		score -= 30
	}
	if len(interactions) == 0 {
		score -= 20
	}
	// exact-length playback is what scripted players produce
	if math.Abs(watchDuration-duration) <= 1 {
		score -= 15
	}
	if watchDuration > duration*1.5 {
		score -= 10
	}

	if score < 0 {
		return 0
	}
	if score > maxSecurityScore {
		return maxSecurityScore
	}
	return score
}

// Verdict runs the duration rules and scores the session. With gating enabled a low score
// rejects the watch even when the durations are plausible.
func (c AntiCheatConfig) Verdict(watchDuration float64, videoDuration int, interactions []model.WatchInteraction) (int, error) {
	score := SecurityScore(watchDuration, videoDuration, interactions)
	if err := ValidateWatch(watchDuration, videoDuration); err != nil {
		return score, err
	}
	if c.GateOnSecurityScore && score < c.MinSecurityScore {
		return score, ErrSuspiciousWatch
	}
	return score, nil
}
