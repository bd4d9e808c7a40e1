package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/epazar20/financial-agentic-ai/internal/agent"
	"github.com/epazar20/financial-agentic-ai/internal/bus"
	"github.com/epazar20/financial-agentic-ai/internal/data"
	"github.com/epazar20/financial-agentic-ai/internal/orchestrator"
	"github.com/epazar20/financial-agentic-ai/internal/service"
	"github.com/epazar20/financial-agentic-ai/internal/stream"
	"github.com/epazar20/financial-agentic-ai/internal/tools"
)

func main() {
	godotenv.Load()

	r := gin.Default()
	r.SetTrustedProxies(nil)

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Upgrade", "Connection"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}

	toolsURL := os.Getenv("TOOLS_API_URL")
	if toolsURL == "" {
		toolsURL = "http://localhost:4000"
	}

	// Redis backs short-term memory and the durable event log; the demo
	// still works without it.
	rdb, err := data.NewRedis()
	if err != nil {
		log.Printf("Warning: Redis connection failed: %v. Proceeding without cache.", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	hub := stream.NewHub()
	go hub.Run()

	eventBus := bus.New(rdb)
	memory := service.NewMemoryService(rdb)
	toolsClient := tools.NewClient(toolsURL)

	pipeline := agent.NewPipeline(toolsClient, hub, eventBus, memory)

	server := orchestrator.NewServer(pipeline, hub, eventBus, memory, toolsClient)
	server.RegisterRoutes(r)
	server.StartDepositConsumer(context.Background())

	log.Printf("Orchestrator listening on port %s (tools API: %s)", port, toolsURL)

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
