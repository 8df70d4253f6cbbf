package api

import (
	"net/http"
	"strconv"

	"rewards_engine/internal/model"
	"rewards_engine/internal/service"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type walletRoutes struct {
	ws service.WalletServiceI
}

func NewWalletRoutes(handler *gin.RouterGroup, ws service.WalletServiceI, authenticated ...gin.HandlerFunc) {
	r := &walletRoutes{ws: ws}
	h := handler.Group("/wallet")
	h.Use(authenticated...)
	{
		h.GET("/transactions", r.GetTransactions)
		h.POST("/withdraw", r.Withdraw)
	}
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// parseFilter reads ?type=A&type=B&limit=&offset= into a bounded filter.
func parseFilter(c *gin.Context) (model.TransactionFilter, bool) {
	filter := model.TransactionFilter{Limit: defaultPageSize}

	for _, t := range c.QueryArray("type") {
		filter.Types = append(filter.Types, model.TransactionType(t))
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, false
		}
		filter.Limit = min(limit, maxPageSize)
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, false
		}
		filter.Offset = offset
	}

	return filter, true
}

func (r *walletRoutes) GetTransactions(c *gin.Context) {
	user, ok := account(c)
	if !ok {
		return
	}

	filter, ok := parseFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination parameters"})
		return
	}

	txs, err := r.ws.GetTransactions(c.Request.Context(), user.ID, filter)
	if err != nil {
		respondError(c, err, "failed to get transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})
}

func (r *walletRoutes) Withdraw(c *gin.Context) {
	log := logger.Logger()

	user, ok := account(c)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	txn, err := r.ws.Withdraw(c.Request.Context(), user.ID, req.Amount)
	if err != nil {
		respondError(c, err, "failed to withdraw")
		return
	}

	c.JSON(http.StatusOK, txn)
}
