package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pairgo/backend/internal/api/handler"
	"pairgo/backend/internal/chathub"
	"pairgo/backend/internal/config"
)

func main() {
	log.Println("Starting PairGo Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The hub goroutine is the single serialization domain for all pairing,
	// room and relay state.
	hub := chathub.NewManagerService(cfg)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, cfg)

	r.GET("/anonid", h.GetAnonID)  // mint anonymous identity + JWT
	r.GET("/ws", h.ServeWebSocket) // WebSocket upgrade
	r.GET("/healthz", h.Healthz)   // liveness + counts

	// The bundled web client.
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Listening on :%s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
