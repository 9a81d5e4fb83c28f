package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"tokend/internal/handler"
	"tokend/internal/ledger"
	"tokend/internal/middleware"
	"tokend/internal/nft"
	"tokend/internal/token"
	"tokend/internal/xumm"
	"tokend/pkg/config"
	"tokend/pkg/logger"
	"tokend/pkg/validator"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("tokend")

	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}
	if err := cfg.ValidateIssuance(); err != nil {
		log.Warn("Issuance disabled", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting token facade", map[string]interface{}{
		"port": cfg.Server.Port,
		"node": cfg.XRPL.NodeURL,
	})

	// Redis backs the ambient rate limiting only.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	log.Info("Redis connected", nil)

	// Clients
	ledgerClient := ledger.NewClient(cfg.XRPL.NodeURL, cfg.XRPL.QueryTimeout, log)
	xummClient := xumm.NewClient(cfg.Xumm, log)

	// Services
	tokenService := token.NewService(ledgerClient, xummClient, cfg.Issuer, log)
	nftService := nft.NewService(xummClient, cfg.Issuer.ImageURL, log)

	// Handlers
	val := validator.New()
	tokenHandler := handler.NewTokenHandler(tokenService, val, log)
	nftHandler := handler.NewNFTHandler(nftService, val, log)

	// Setup router
	r := mux.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB global cap
	r.Use(middleware.NewRateLimiter(redisClient, 120, time.Minute).Limit)

	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ready", readyCheck(redisClient)).Methods("GET")

	// Administrative issuance stays outside the session gate; it is signed
	// with the server-held issuer keys, not by a user wallet.
	admin := r.PathPrefix("/api/v1/tokens").Subrouter()
	admin.HandleFunc("/issue-token", tokenHandler.IssueToken).Methods("POST")

	gate := middleware.NewSessionGate(xummClient, log)
	api := r.PathPrefix("/api/v1/tokens").Subrouter()
	api.Use(gate.Authenticate)

	api.HandleFunc("/balance", tokenHandler.GetBalance).Methods("GET")
	api.HandleFunc("/token-balance", tokenHandler.GetTokenBalance).Methods("GET")
	api.HandleFunc("/send", tokenHandler.Send).Methods("POST")
	api.HandleFunc("/send-token", tokenHandler.SendToken).Methods("POST")
	api.HandleFunc("/trust-line", tokenHandler.CreateTrustLine).Methods("POST")
	api.HandleFunc("/trade", tokenHandler.Trade).Methods("POST")
	api.HandleFunc("/swap-path", tokenHandler.SwapPath).Methods("POST")
	api.HandleFunc("/mint-nft", nftHandler.MintNFT).Methods("POST")

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Token facade started", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down token facade...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Token facade forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Token facade stopped gracefully", nil)
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy","service":"tokend"}`))
}

func readyCheck(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}
