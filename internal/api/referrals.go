package api

import (
	"net/http"

	"rewards_engine/internal/model"
	"rewards_engine/internal/service"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type referralRoutes struct {
	rs service.ReferralServiceI
	hs service.HierarchyServiceI
	ws service.WalletServiceI
}

func NewReferralRoutes(
	handler *gin.RouterGroup,
	rs service.ReferralServiceI,
	hs service.HierarchyServiceI,
	ws service.WalletServiceI,
	authenticated ...gin.HandlerFunc,
) {
	r := &referralRoutes{rs: rs, hs: hs, ws: ws}
	h := handler.Group("/referrals")
	{
		h.POST("/track", r.TrackVisit)
	}

	private := h.Group("")
	private.Use(authenticated...)
	{
		private.GET("/link", r.GetLink)
		private.GET("/stats", r.GetStats)
		private.GET("/hierarchy", r.GetHierarchy)
		private.GET("/subordinates", r.GetSubordinates)
		private.GET("/rewards", r.GetRewardHistory)
	}
}

type TrackVisitRequest struct {
	ReferralCode string `json:"referral_code" binding:"required"`
	Source       string `json:"source"`
}

func (r *referralRoutes) TrackVisit(c *gin.Context) {
	log := logger.Logger()

	var req TrackVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	outcome, err := r.rs.TrackReferralVisit(c.Request.Context(), model.ReferralVisit{
		ReferralCode: sanitize(req.ReferralCode),
		IPAddress:    c.ClientIP(),
		UserAgent:    sanitize(c.Request.UserAgent()),
		Source:       sanitize(req.Source),
	})
	if err != nil {
		respondError(c, err, "failed to track referral visit")
		return
	}

	if !outcome.Success && outcome.Reason == service.ReasonInvalidCode {
		c.JSON(http.StatusNotFound, outcome)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (r *referralRoutes) GetLink(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code": user.ReferralCode,
		"link":          r.rs.ReferralLink(user.ReferralCode),
	})
}

func (r *referralRoutes) GetStats(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	stats, err := r.rs.GetReferralStats(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get referral stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (r *referralRoutes) GetHierarchy(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	stats, err := r.hs.GetReferralHierarchyStats(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get referral hierarchy")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":         stats.Counts,
		"earnings":       stats.Earnings,
		"total_count":    stats.TotalCount(),
		"total_earnings": stats.TotalEarnings,
	})
}

func (r *referralRoutes) GetSubordinates(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	subordinates, err := r.hs.GetSubordinates(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get subordinates")
		return
	}

	c.JSON(http.StatusOK, subordinates)
}

func (r *referralRoutes) GetRewardHistory(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	history, err := r.ws.GetRewardHistory(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get reward history")
		return
	}

	c.JSON(http.StatusOK, history)
}
