package api

import (
	"errors"
	"net/http"

	"rewards_engine/internal/service"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrAccountLocked, http.StatusLocked},
	{service.ErrNoActivePosition, http.StatusForbidden},
	{service.ErrUserInactive, http.StatusForbidden},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrVideoNotFound, http.StatusNotFound},
	{service.ErrPositionNotFound, http.StatusNotFound},
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrPositionAlreadyActive, http.StatusConflict},
	{service.ErrAlreadyWatchedToday, http.StatusBadRequest},
	{service.ErrDailyLimitReached, http.StatusBadRequest},
	{service.ErrWatchTooShort, http.StatusBadRequest},
	{service.ErrInvalidWatchDuration, http.StatusBadRequest},
	{service.ErrSuspiciousWatch, http.StatusBadRequest},
	{service.ErrInsufficientFunds, http.StatusBadRequest},
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{service.ErrInvalidInput, http.StatusBadRequest},
}

func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Known errors expose their message; anything
// else is logged and replaced with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Logger().Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	logger.Logger().Info("request rejected", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(status, gin.H{"error": err.Error()})
}
