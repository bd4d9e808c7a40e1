package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epazar20/financial-agentic-ai/internal/models"
)

type transactionsQueryRequest struct {
	UserID string `json:"userId"`
	Since  int64  `json:"since"`
	Limit  int    `json:"limit"`
}

// QueryTransactions returns a user's transactions filtered by `since`
// (epoch millis) and capped at `limit`. `total` always reports the
// unfiltered count for the user.
func (h *ToolsHandler) QueryTransactions(c *gin.Context) {
	var req transactionsQueryRequest
	// Body is optional; every field has a default.
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	user, ok := h.store.User(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	transactions := make([]models.Transaction, 0, len(user.Transactions))
	for _, tx := range user.Transactions {
		if req.Since != 0 && tx.Timestamp < req.Since {
			continue
		}
		transactions = append(transactions, tx)
		if len(transactions) == limit {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"total":        len(user.Transactions),
		"userId":       userID,
	})
}

type userProfileRequest struct {
	UserID string `json:"userId"`
}

// GetUserProfile returns the fixture profile, accounts and saved
// preferences for a user.
func (h *ToolsHandler) GetUserProfile(c *gin.Context) {
	var req userProfileRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	user, ok := h.store.User(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":           userID,
		"profile":          user.Profile,
		"accounts":         user.Accounts,
		"savedPreferences": user.Profile.Preferences,
	})
}
