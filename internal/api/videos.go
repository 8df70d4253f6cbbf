package api

import (
	"net/http"
	"time"

	"rewards_engine/internal/model"
	"rewards_engine/internal/service"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type videoRoutes struct {
	vs service.VideoServiceI
	ws service.WatchServiceI
}

func NewVideoRoutes(
	handler *gin.RouterGroup,
	vs service.VideoServiceI,
	ws service.WatchServiceI,
	authenticated []gin.HandlerFunc,
	admin []gin.HandlerFunc,
) {
	r := &videoRoutes{vs: vs, ws: ws}
	h := handler.Group("/videos")

	adminGroup := h.Group("")
	adminGroup.Use(admin...)
	{
		adminGroup.POST("", r.CreateVideo)
	}

	user := h.Group("")
	user.Use(authenticated...)
	{
		user.GET("", r.GetVideos)
		user.GET("/:video_id", r.GetVideo)
		user.POST("/:video_id/watch", r.SubmitWatch)
	}
}

type CreateVideoRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	URL           string     `json:"url" binding:"required,url"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	Duration      int        `json:"duration" binding:"required,min=1"`
	PositionID    *uuid.UUID `json:"position_id"`
	AvailableFrom *time.Time `json:"available_from"`
	AvailableTo   *time.Time `json:"available_to"`
}

type WatchRequest struct {
	WatchDuration    float64                  `json:"watch_duration"`
	Interactions     []model.WatchInteraction `json:"interactions"`
	VerificationData map[string]any           `json:"verification_data"`
	DeviceID         string                   `json:"device_id"`
}

type WatchResponse struct {
	Result *model.WatchResult `json:"result"`
	Error  string             `json:"error,omitempty"`
}

func (r *videoRoutes) CreateVideo(c *gin.Context) {
	log := logger.Logger()

	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	video := &model.Video{
		Title:        sanitize(req.Title),
		Description:  sanitize(req.Description),
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
		PositionID:   req.PositionID,
		IsActive:     true,
		AvailableTo:  req.AvailableTo,
	}
	if req.AvailableFrom != nil {
		video.AvailableFrom = *req.AvailableFrom
	}

	if err := r.vs.CreateVideo(c.Request.Context(), video); err != nil {
		respondError(c, err, "failed to create video")
		return
	}

	c.JSON(http.StatusCreated, video)
}

func (r *videoRoutes) GetVideos(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	videos, err := r.vs.GetVideos(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get videos")
		return
	}

	c.JSON(http.StatusOK, videos)
}

func (r *videoRoutes) GetVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video_id"})
		return
	}

	video, err := r.vs.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, err, "failed to get video")
		return
	}

	c.JSON(http.StatusOK, video)
}

func (r *videoRoutes) SubmitWatch(c *gin.Context) {
	log := logger.Logger()

	user, ok := account(c)
	if !ok {
		return
	}

	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video_id"})
		return
	}

	var req WatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := r.ws.SubmitVideoWatch(c.Request.Context(), model.WatchSubmission{
		UserID:           user.ID,
		VideoID:          videoID,
		WatchDuration:    req.WatchDuration,
		Interactions:     req.Interactions,
		VerificationData: req.VerificationData,
		IPAddress:        c.ClientIP(),
		DeviceID:         sanitize(req.DeviceID),
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			respondError(c, err, "failed to submit watch")
			return
		}
		c.JSON(status, WatchResponse{Result: result, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, WatchResponse{Result: result})
}
