package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"upbit-gem-screener/internal/config"
	httpdelivery "upbit-gem-screener/internal/delivery/http"
	wsdelivery "upbit-gem-screener/internal/delivery/websocket"
	"upbit-gem-screener/internal/infrastructure/cache"
	"upbit-gem-screener/internal/infrastructure/fcm"
	"upbit-gem-screener/internal/infrastructure/gemini"
	"upbit-gem-screener/internal/infrastructure/metrics"
	"upbit-gem-screener/internal/infrastructure/upbit"
	"upbit-gem-screener/internal/repository"
	"upbit-gem-screener/internal/usecase"
)

func main() {
	cfg := config.Load()

	// Infrastructure
	listingCache := cache.NewTTL(cfg.ListingCacheTTL)
	upbitClient := upbit.NewClient(cfg.UpbitBaseURL, listingCache)
	geminiClient := gemini.NewClient("", cfg.GeminiAPIKey, cfg.GeminiModel)
	m := metrics.New()

	fcmClient, err := fcm.NewClient(cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Printf("FCM init failed, alerts disabled: %v", err)
		fcmClient = nil
	}

	// Repositories
	reportRepo := repository.NewInMemoryReportRepository()
	tokenRepo := repository.NewTokenRepository()

	// Usecase
	uc := usecase.NewScreenerUsecase(
		upbitClient,
		reportRepo,
		tokenRepo,
		fcmClient,
		geminiClient,
		m,
		cfg.PacingDelay,
		cfg.NotifyCooldown,
	)

	go uc.Run(context.Background(), cfg.ScanInterval)

	// Delivery
	reportHandler := httpdelivery.NewReportHandler(reportRepo)
	tokenHandler := httpdelivery.NewTokenHandler(tokenRepo)
	wsHandler := wsdelivery.NewHandler(reportRepo, 10*time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/report", reportHandler.HandleReport)
	mux.HandleFunc("/api/candidates", reportHandler.HandleCandidates)
	mux.HandleFunc("/api/criteria", reportHandler.HandleCriteria)
	mux.HandleFunc("/api/tokens/register", tokenHandler.HandleRegister)
	mux.HandleFunc("/api/tokens/unregister", tokenHandler.HandleUnregister)
	mux.HandleFunc("/ws", wsHandler.Handle)
	mux.Handle("/metrics", m.Handler())

	log.Printf("Server listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		log.Fatal(err)
	}
}
