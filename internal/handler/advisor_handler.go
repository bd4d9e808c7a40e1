package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type updatePreferenceRequest struct {
	UserID              string  `json:"userId"`
	PreferredInvestment string  `json:"preferredInvestment"`
	Allocation          float64 `json:"allocation"`
}

// UpdatePreference echoes an investment preference change.
func (h *ToolsHandler) UpdatePreference(c *gin.Context) {
	var req updatePreferenceRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	if req.PreferredInvestment == "" {
		req.PreferredInvestment = "bond"
	}
	if req.Allocation == 0 {
		req.Allocation = 100
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"action":              "preference_updated",
		"userId":              userID,
		"preferredInvestment": req.PreferredInvestment,
		"allocation":          req.Allocation,
		"message":             fmt.Sprintf("%s yatırım tercihi %%%v olarak ayarlandı", req.PreferredInvestment, req.Allocation),
		"updatedAt":           nowMillis(),
	})
}

type getAdviceRequest struct {
	UserID   string `json:"userId"`
	Question string `json:"question"`
}

// GetAdvice matches the question against a few keywords and returns a
// canned advisory string.
func (h *ToolsHandler) GetAdvice(c *gin.Context) {
	var req getAdviceRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	advice := "Genel finansal danışmanlık hizmeti sağlandı."
	question := strings.ToLower(req.Question)
	switch {
	case strings.Contains(question, "tahvil"):
		advice = "Tahvil yatırımları düşük riskli ve sabit getiri sağlar. Devlet tahvilleri önerilir."
	case strings.Contains(question, "hisse"):
		advice = "Hisse senedi yatırımları yüksek riskli ancak uzun vadede yüksek getiri potansiyeli sunar."
	case strings.Contains(question, "tasarruf"):
		advice = "Tasarruf oranınızı %30 civarında tutmanız önerilir. Acil durum fonu için 3-6 aylık gider tutarında birikim yapın."
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"action":    "advice_provided",
		"userId":    userID,
		"question":  req.Question,
		"advice":    advice,
		"timestamp": nowMillis(),
	})
}
