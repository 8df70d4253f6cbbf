package api

import (
	"net/http"
	"time"

	"rewards_engine/internal/middleware"
	"rewards_engine/internal/model"
	"rewards_engine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type userRoutes struct {
	us service.UserServiceI
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, authenticated ...gin.HandlerFunc) {
	r := &userRoutes{us: us}
	h := handler.Group("/me")
	h.Use(authenticated...)
	{
		h.GET("", r.GetMe)
		h.GET("/referrals", r.GetUserReferrals)
	}
}

type UserResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Email              string           `json:"email"`
	Name               string           `json:"name"`
	Phone              *string          `json:"phone"`
	Role               model.UserRole   `json:"role"`
	ReferralCode       string           `json:"referral_code"`
	Status             model.UserStatus `json:"status"`
	WalletBalance      decimal.Decimal  `json:"wallet_balance"`
	TotalEarnings      decimal.Decimal  `json:"total_earnings"`
	TotalVideosWatched int              `json:"total_videos_watched"`
	CreatedAt          time.Time        `json:"created_at"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Phone:              u.Phone,
		Role:               u.Role,
		ReferralCode:       u.ReferralCode,
		Status:             u.Status,
		WalletBalance:      u.WalletBalance,
		TotalEarnings:      u.TotalEarnings,
		TotalVideosWatched: u.TotalVideosWatched,
		CreatedAt:          u.CreatedAt,
	}
}

// account returns the user loaded by the authorization middleware or writes a 401.
func account(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentAccount(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return user, true
}

func (r *userRoutes) GetMe(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (r *userRoutes) GetUserReferrals(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	referrals, err := r.us.GetUserReferrals(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to get user referrals")
		return
	}

	c.JSON(http.StatusOK, referrals)
}
