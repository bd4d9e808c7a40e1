// Package orchestrator exposes the agent pipeline over HTTP: scenario
// triggers, the user decision endpoints, the event-bus publish endpoint and
// the SSE/websocket notification stream.
package orchestrator

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/epazar20/financial-agentic-ai/internal/agent"
	"github.com/epazar20/financial-agentic-ai/internal/bus"
	"github.com/epazar20/financial-agentic-ai/internal/service"
	"github.com/epazar20/financial-agentic-ai/internal/stream"
	"github.com/epazar20/financial-agentic-ai/internal/tools"
)

const defaultUserID = "web_ui_user"

// pipelineTimeout bounds one background scenario run end to end.
const pipelineTimeout = 30 * time.Second

type Server struct {
	pipeline *agent.Pipeline
	hub      *stream.Hub
	bus      *bus.Bus
	memory   *service.MemoryService
	tools    *tools.Client
}

func NewServer(pipeline *agent.Pipeline, hub *stream.Hub, b *bus.Bus, memory *service.MemoryService, t *tools.Client) *Server {
	return &Server{pipeline: pipeline, hub: hub, bus: b, memory: memory, tools: t}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/test", s.Test)
	r.GET("/health", s.Health)
	r.GET("/stream", s.hub.ServeSSE)
	r.GET("/ws", s.hub.ServeWS)

	r.POST("/simulate_deposit", s.SimulateDeposit)
	r.POST("/action", s.UserAction)
	r.POST("/chat_response", s.ChatResponse)
	r.POST("/approve_all_proposals", s.ApproveAllProposals)
	r.POST("/reject_all_proposals", s.RejectAllProposals)
	r.POST("/kafka/publish", s.PublishEvent)
}

// StartDepositConsumer subscribes to the transactions.deposit topic and
// runs the deposit pipeline for every event published there. This is how
// /kafka/publish triggers the same scenario as /simulate_deposit.
func (s *Server) StartDepositConsumer(ctx context.Context) {
	ch := s.bus.Subscribe(bus.TopicTransactionsDeposit)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				var event struct {
					Payload struct {
						UserID string  `json:"userId"`
						Amount float64 `json:"amount"`
					} `json:"payload"`
					Meta struct {
						CorrelationID string `json:"correlationId"`
					} `json:"meta"`
				}
				if err := json.Unmarshal(msg, &event); err != nil {
					log.Printf("Invalid deposit event: %v", err)
					continue
				}
				if event.Payload.UserID == "" || event.Payload.Amount <= 0 {
					log.Printf("Dropping deposit event without userId or amount")
					continue
				}

				correlationID := event.Meta.CorrelationID
				if correlationID == "" {
					correlationID = newCorrelationID("corr")
				}
				go s.runDeposit(event.Payload.UserID, event.Payload.Amount, correlationID)
			}
		}
	}()
}

func (s *Server) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Test endpoint çalışıyor"})
}

func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	services := gin.H{
		"tools":    s.tools.Healthy(ctx),
		"memory":   s.memory.Healthy(ctx),
		"eventLog": s.bus.Healthy(ctx),
	}

	status := "healthy"
	for _, healthy := range services {
		if ok, _ := healthy.(bool); !ok {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "services": services})
}

type simulateDepositRequest struct {
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount"`
	CorrelationID string  `json:"correlation_id"`
	Meta          struct {
		CorrelationID string `json:"correlationId"`
	} `json:"meta"`
}

// SimulateDeposit accepts a salary-deposit trigger and runs the pipeline in
// the background. Always answers 202 once the request parses; pipeline
// failures surface on the event stream, not here.
func (s *Server) SimulateDeposit(c *gin.Context) {
	var req simulateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON payload gerekli"})
		return
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = req.Meta.CorrelationID
	}
	if correlationID == "" {
		correlationID = newCorrelationID("corr")
	}

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount gerekli"})
		return
	}

	go s.runDeposit(userID, req.Amount, correlationID)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "correlationId": correlationID})
}

func (s *Server) runDeposit(userID string, amount float64, correlationID string) {
	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	if err := s.pipeline.RunDeposit(ctx, userID, amount, correlationID); err != nil {
		log.Printf("Deposit pipeline failed (correlation=%s): %v", correlationID, err)
	}
}

// UserAction records an approve/reject decision and finalizes the transfer
// in the background.
func (s *Server) UserAction(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload gerekli"})
		return
	}

	userID, _ := payload["userId"].(string)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId gerekli"})
		return
	}

	if err := s.memory.SetUserAction(c.Request.Context(), userID, payload); err != nil {
		log.Printf("Failed to record user action for %s: %v", userID, err)
	}

	s.hub.Publish("user-action", payload)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()
		if err := s.pipeline.FinalizeAction(ctx, payload); err != nil {
			log.Printf("Finalize action failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// ChatResponse analyzes a free-text answer, runs the selected agent and
// reports the outcome both on the stream and in the response body.
func (s *Server) ChatResponse(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON payload gerekli"})
		return
	}

	userResponse, _ := payload["response"].(string)
	userResponse = strings.TrimSpace(userResponse)
	if userResponse == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Boş cevap gönderilemez"})
		return
	}

	userID, _ := payload["userId"].(string)
	if userID == "" {
		userID = defaultUserID
	}
	correlationID, _ := payload["correlationId"].(string)
	if correlationID == "" {
		correlationID = newCorrelationID("chat")
	}

	analysis := agent.AnalyzeResponse(userResponse)
	agentAction := s.pipeline.ExecuteAnalyzed(c.Request.Context(), analysis, userResponse, correlationID, userID)

	s.hub.Publish("chat-analysis", gin.H{
		"type":          "chat-analysis",
		"userId":        userID,
		"userResponse":  userResponse,
		"analysis":      analysis,
		"agentAction":   agentAction,
		"correlationId": correlationID,
		"timestamp":     time.Now().UnixMilli(),
	})

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "Cevap analiz edildi ve işlendi",
		"analysis":      analysis,
		"agentAction":   agentAction,
		"correlationId": correlationID,
	})
}

// ApproveAllProposals executes every proposed agent action in order and
// emits the execution trail plus the final report on the stream.
func (s *Server) ApproveAllProposals(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON payload gerekli"})
		return
	}

	userID, _ := payload["userId"].(string)
	if userID == "" {
		userID = defaultUserID
	}
	correlationID, _ := payload["correlationId"].(string)
	if correlationID == "" {
		correlationID = newCorrelationID("approve_all")
	}
	allProposals, _ := payload["allProposals"].(map[string]any)

	plan := agent.BuildApprovalPlan(allProposals)
	results := s.pipeline.ExecuteApprovalPlan(c.Request.Context(), plan, correlationID, userID)

	s.hub.Publish("all-proposals-approved", gin.H{
		"type":             "all-proposals-approved",
		"userId":           userID,
		"analysis":         plan,
		"executionResults": results,
		"correlationId":    correlationID,
		"timestamp":        time.Now().UnixMilli(),
	})
	s.pipeline.PublishFinalReport(c.Request.Context(), results, correlationID, userID)

	c.JSON(http.StatusOK, gin.H{
		"status":           "success",
		"message":          "Tüm öneriler onaylandı ve işlendi",
		"analysis":         plan,
		"executionResults": results,
		"correlationId":    correlationID,
	})
}

// RejectAllProposals reports the rejection on the stream; no agent runs.
func (s *Server) RejectAllProposals(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON payload gerekli"})
		return
	}

	userID, _ := payload["userId"].(string)
	if userID == "" {
		userID = defaultUserID
	}
	correlationID, _ := payload["correlationId"].(string)
	if correlationID == "" {
		correlationID = newCorrelationID("reject_all")
	}
	message := "❌ Tüm öneriler reddedildi. Mevcut durumunuz korunuyor, herhangi bir işlem yapılmadı."

	s.hub.Publish("all-proposals-rejected", gin.H{
		"type":          "all-proposals-rejected",
		"userId":        userID,
		"message":       message,
		"status":        "rejected",
		"correlationId": correlationID,
		"timestamp":     time.Now().UnixMilli(),
	})

	c.JSON(http.StatusOK, gin.H{
		"status":        "rejected",
		"message":       "Tüm öneriler reddedildi",
		"correlationId": correlationID,
	})
}

// PublishEvent puts an arbitrary event on the internal bus. The route keeps
// its historical path so existing producers do not need to change.
func (s *Server) PublishEvent(c *gin.Context) {
	var req struct {
		Topic string         `json:"topic"`
		Data  map[string]any `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload gerekli"})
		return
	}
	if req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic gerekli"})
		return
	}

	if err := s.bus.Publish(c.Request.Context(), req.Topic, req.Data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Event yayınlanamadı", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "published", "topic": req.Topic})
}

func newCorrelationID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
