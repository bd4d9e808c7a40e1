package handler

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// newTransferID mints a demo transfer id. The tx-<digits> shape is part of
// the tool contract, so no UUIDs here.
func newTransferID() string {
	return fmt.Sprintf("tx-%d", rand.Intn(10000))
}

type createTransferRequest struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Status string  `json:"status"`
}

// CreateTransfer synthesizes a transfer acknowledgement. Nothing is
// persisted; executedAt is set only when the caller requests a completed
// transfer.
func (h *ToolsHandler) CreateTransfer(c *gin.Context) {
	var req createTransferRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	status := req.Status
	if status == "" {
		status = "pending"
	}

	var executedAt *string
	if status == "completed" {
		now := time.Now().Format(time.RFC3339)
		executedAt = &now
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"txId":       newTransferID(),
		"userId":     userID,
		"amount":     req.Amount,
		"from":       req.From,
		"to":         req.To,
		"executedAt": executedAt,
		"createdAt":  time.Now().Format(time.RFC3339),
	})
}

type modifyTransferRequest struct {
	UserID         string  `json:"userId"`
	NewAmount      float64 `json:"newAmount"`
	OriginalAmount float64 `json:"originalAmount"`
	TransferID     string  `json:"transferId"`
}

// ModifyTransfer echoes a transfer amount change.
func (h *ToolsHandler) ModifyTransfer(c *gin.Context) {
	var req modifyTransferRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	transferID := req.TransferID
	if transferID == "" {
		transferID = newTransferID()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"action":         "transfer_modified",
		"txId":           transferID,
		"userId":         userID,
		"originalAmount": req.OriginalAmount,
		"newAmount":      req.NewAmount,
		"difference":     req.NewAmount - req.OriginalAmount,
		"message":        fmt.Sprintf("Transfer miktarı %v₺ olarak güncellendi", req.NewAmount),
		"executedAt":     time.Now().Format(time.RFC3339),
	})
}

type createTransferAliasRequest struct {
	UserID      string  `json:"userId"`
	Amount      float64 `json:"amount"`
	FromAccount string  `json:"fromAccount"`
	ToSavingsID string  `json:"toSavingsId"`
}

// CreateTransferAlias serves the snake_case tool-calling aliases. Their
// response shape genuinely differs from savings.createTransfer: account
// field names, always-pending status, executedAt always null.
func (h *ToolsHandler) CreateTransferAlias(c *gin.Context) {
	var req createTransferAliasRequest
	c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	if req.FromAccount == "" {
		req.FromAccount = "CHK001"
	}
	if req.ToSavingsID == "" {
		req.ToSavingsID = "SV001"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "pending",
		"txId":        newTransferID(),
		"userId":      userID,
		"amount":      req.Amount,
		"fromAccount": req.FromAccount,
		"toSavingsId": req.ToSavingsID,
		"executedAt":  nil,
		"createdAt":   time.Now().Format(time.RFC3339),
	})
}
