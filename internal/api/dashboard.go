package api

import (
	"net/http"

	"rewards_engine/internal/service"

	"github.com/gin-gonic/gin"
)

type dashboardRoutes struct {
	ds service.DashboardServiceI
}

func NewDashboardRoutes(handler *gin.RouterGroup, ds service.DashboardServiceI, authenticated ...gin.HandlerFunc) {
	r := &dashboardRoutes{ds: ds}
	h := handler.Group("/dashboard")
	h.Use(authenticated...)
	{
		h.GET("", r.GetDashboard)
	}
}

func (r *dashboardRoutes) GetDashboard(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	stats, err := r.ds.GetDashboardStats(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get dashboard")
		return
	}

	c.JSON(http.StatusOK, stats)
}
