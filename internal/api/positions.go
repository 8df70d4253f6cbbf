package api

import (
	"net/http"

	"rewards_engine/internal/service"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type positionRoutes struct {
	ps service.PositionServiceI
}

func NewPositionRoutes(handler *gin.RouterGroup, ps service.PositionServiceI, authenticated ...gin.HandlerFunc) {
	r := &positionRoutes{ps: ps}
	h := handler.Group("/positions")
	h.Use(authenticated...)
	{
		h.GET("", r.GetPositions)
		h.GET("/current", r.GetCurrentPosition)
		h.GET("/eligibility", r.GetEligibility)
		h.POST("/subscribe", r.Subscribe)
	}
}

type SubscribeRequest struct {
	PositionID uuid.UUID `json:"position_id" binding:"required"`
}

func (r *positionRoutes) GetPositions(c *gin.Context) {
	positions, err := r.ps.GetPositions(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to get positions")
		return
	}

	c.JSON(http.StatusOK, positions)
}

func (r *positionRoutes) GetCurrentPosition(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	current, err := r.ps.GetUserCurrentPosition(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get current position")
		return
	}

	c.JSON(http.StatusOK, current)
}

func (r *positionRoutes) GetEligibility(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	eligibility, err := r.ps.CanCompleteTask(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to check task eligibility")
		return
	}

	c.JSON(http.StatusOK, eligibility)
}

func (r *positionRoutes) Subscribe(c *gin.Context) {
	log := logger.Logger()

	user, ok := account(c)
	if !ok {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	subscription, err := r.ps.SubscribePosition(c.Request.Context(), user.ID, req.PositionID)
	if err != nil {
		respondError(c, err, "failed to subscribe to position")
		return
	}

	c.JSON(http.StatusCreated, subscription)
}
