package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/epazar20/financial-agentic-ai/internal/fixture"
	"github.com/epazar20/financial-agentic-ai/internal/handler"
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
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	store := fixture.NewStore()
	h := handler.NewToolsHandler(store)
	h.RegisterRoutes(r)

	log.Printf("Finance tools API listening on port %s (%d fixture users)", port, store.UserCount())

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
