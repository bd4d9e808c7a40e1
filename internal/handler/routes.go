package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every tool endpoint plus the alias routes kept for
// LLM tool-calling compatibility. Aliases share the primary handlers except
// the two snake_case savings forms, whose response shape differs.
func (h *ToolsHandler) RegisterRoutes(r *gin.Engine) {
	r.Use(recoverJSON())

	r.GET("/health", h.Health)

	r.POST("/transactions.query", h.QueryTransactions)
	r.POST("/userProfile.get", h.GetUserProfile)
	r.POST("/risk.scoreTransaction", h.ScoreTransaction)
	r.POST("/market.quotes", h.GetQuotes)
	r.POST("/savings.createTransfer", h.CreateTransfer)
	r.POST("/payments.modifyTransfer", h.ModifyTransfer)
	r.POST("/investment.updatePreference", h.UpdatePreference)
	r.POST("/risk.performAnalysis", h.PerformAnalysis)
	r.POST("/general.getAdvice", h.GetAdvice)
	r.POST("/portfolio.getStatus", h.GetPortfolioStatus)

	// Aliases
	r.POST("/user_profile_get", h.GetUserProfile)
	r.POST("/userProfile_get", h.GetUserProfile)
	r.POST("/transactions_query", h.QueryTransactions)
	r.POST("/risk_score_transaction", h.ScoreTransaction)
	r.POST("/savings_create_transfer", h.CreateTransferAlias)
	r.POST("/savings_createTransfer", h.CreateTransferAlias)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Tool not found",
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
			"timestamp": time.Now().UnixMilli(),
		})
	})
}

// recoverJSON converts a handler panic into the structured 500 body the
// tool callers expect.
func recoverJSON() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"message":   fmt.Sprint(err),
			"timestamp": time.Now().UnixMilli(),
		})
	})
}
