package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type marketQuotesRequest struct {
	AssetType string `json:"assetType"`
	Tenor     string `json:"tenor"`
}

// GetQuotes returns the catalog slice for an asset class. assetType
// defaults to bond and tenor to 1Y; only bonds are filtered by tenor.
func (h *ToolsHandler) GetQuotes(c *gin.Context) {
	var req marketQuotesRequest
	c.ShouldBindJSON(&req)

	if req.AssetType == "" {
		req.AssetType = "bond"
	}
	if req.Tenor == "" {
		req.Tenor = "1Y"
	}

	quotes := h.store.Quotes(req.AssetType, req.Tenor)

	c.JSON(http.StatusOK, gin.H{
		"assetType":    req.AssetType,
		"tenor":        req.Tenor,
		"quotes":       quotes,
		"updatedAt":    nowMillis(),
		"marketStatus": "open",
	})
}

type portfolioStatusRequest struct {
	UserID string `json:"userId"`
}

// GetPortfolioStatus returns the canned portfolio snapshot.
func (h *ToolsHandler) GetPortfolioStatus(c *gin.Context) {
	var req portfolioStatusRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	portfolio := gin.H{
		"totalValue": 90000,
		"allocation": gin.H{
			"checking":   50000,
			"savings":    15000,
			"investment": 25000,
		},
		"performance": gin.H{
			"daily":   0.02,
			"monthly": 0.15,
			"yearly":  0.28,
		},
		"riskScore": 0.05,
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"userId":    userID,
		"portfolio": portfolio,
		"message":   "Portföy durumu başarıyla alındı",
		"timestamp": nowMillis(),
	})
}
