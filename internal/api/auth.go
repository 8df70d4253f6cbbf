package api

import (
	"net/http"

	"rewards_engine/internal/model"
	"rewards_engine/internal/service"
	"rewards_engine/pkg/auth"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type authRoutes struct {
	us     service.UserServiceI
	tokens *auth.TokenAuth
}

func NewAuthRoutes(handler *gin.RouterGroup, us service.UserServiceI, tokens *auth.TokenAuth) {
	r := &authRoutes{us: us, tokens: tokens}
	h := handler.Group("/auth")
	{
		h.POST("/register", r.Register)
		h.POST("/login", r.Login)
	}
}

type RegisterRequest struct {
	Email        string  `json:"email" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Phone        *string `json:"phone"`
	Password     string  `json:"password" binding:"required"`
	ReferralCode string  `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token    string                 `json:"token"`
	User     UserResponse           `json:"user"`
	Referral *model.ReferralOutcome `json:"referral,omitempty"`
}

func (r *authRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, outcome, err := r.us.Register(c.Request.Context(), service.RegisterInput{
		Email:        req.Email,
		Name:         sanitize(req.Name),
		Phone:        sanitizePtr(req.Phone),
		Password:     req.Password,
		ReferralCode: sanitize(req.ReferralCode),
		IPAddress:    c.ClientIP(),
	})
	if err != nil {
		respondError(c, err, "failed to register user")
		return
	}

	token, err := r.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:    token,
		User:     newUserResponse(user),
		Referral: outcome,
	})
}

func (r *authRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}

	token, err := r.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  newUserResponse(user),
	})
}
