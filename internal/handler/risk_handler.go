package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type scoreTransactionRequest struct {
	UserID string `json:"userId"`
	Tx     struct {
		Amount float64 `json:"amount"`
		Type   string  `json:"type"`
	} `json:"tx"`
}

// ScoreTransaction assigns a mock risk score from the transaction type and
// amount. Thresholds: salary deposits 0.02, amounts over 50000 map to 0.15,
// external transfers 0.25, everything else 0.05. Scores under 0.1 get an
// approve recommendation.
func (h *ToolsHandler) ScoreTransaction(c *gin.Context) {
	var req scoreTransactionRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	score := 0.05
	reason := "low risk"

	switch {
	case req.Tx.Type == "salary_deposit":
		score = 0.02
		reason = "regular salary deposit"
	case req.Tx.Amount > 50000:
		score = 0.15
		reason = "large amount transaction"
	case req.Tx.Type == "external_transfer":
		score = 0.25
		reason = "external transfer"
	}

	recommendation := "review"
	if score < 0.1 {
		recommendation = "approve"
	}

	c.JSON(http.StatusOK, gin.H{
		"score":          score,
		"reason":         reason,
		"factors":        []string{"amount", "type", "user_history"},
		"recommendation": recommendation,
		"userId":         userID,
		"timestamp":      nowMillis(),
	})
}

type performAnalysisRequest struct {
	UserID       string `json:"userId"`
	AnalysisType string `json:"analysisType"`
}

// PerformAnalysis returns the canned comprehensive risk analysis.
func (h *ToolsHandler) PerformAnalysis(c *gin.Context) {
	var req performAnalysisRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	if req.AnalysisType == "" {
		req.AnalysisType = "comprehensive"
	}

	analysis := gin.H{
		"overallScore": 0.05,
		"categories": gin.H{
			"transactionRisk": 0.02,
			"marketRisk":      0.08,
			"liquidityRisk":   0.03,
			"creditRisk":      0.01,
		},
		"recommendations": []string{
			"Düşük risk profili uygun",
			"Tahvil yatırımları önerilir",
			"Acil durum fonu yeterli",
		},
		"riskLevel": "low",
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"action":    "risk_analysis_completed",
		"userId":    userID,
		"analysis":  analysis,
		"message":   fmt.Sprintf("Risk analizi tamamlandı. Genel risk skoru: %v", analysis["overallScore"]),
		"timestamp": nowMillis(),
	})
}
