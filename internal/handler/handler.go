package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epazar20/financial-agentic-ai/internal/fixture"
)

// defaultUserID is assumed whenever a tool call omits userId, matching the
// demo web UI's hardcoded user.
const defaultUserID = "web_ui_user"

const apiVersion = "2.0"

// toolNames is the catalog reported by /health.
var toolNames = []string{
	"transactions.query",
	"userProfile.get",
	"risk.scoreTransaction",
	"market.quotes",
	"savings.createTransfer",
	"payments.modifyTransfer",
	"investment.updatePreference",
	"risk.performAnalysis",
	"general.getAdvice",
	"portfolio.getStatus",
}

// ToolsHandler serves the mock finance tools API. The fixture store is
// read-only, so a single instance is safe for concurrent requests.
type ToolsHandler struct {
	store *fixture.Store
}

func NewToolsHandler(store *fixture.Store) *ToolsHandler {
	return &ToolsHandler{store: store}
}

func (h *ToolsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": apiVersion,
		"tools":   toolNames,
	})
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
