package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kycpay-web/backend"
	"kycpay-web/config"
	"kycpay-web/database"
	"kycpay-web/handlers"
	"kycpay-web/middleware"
	"kycpay-web/session"
	"kycpay-web/utils"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file found")
	}

	warnings, err := config.Validate(cfg)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	sealer, err := utils.NewSealer(cfg.SessionKey)
	if err != nil {
		logger.Fatal("failed to initialize session sealing", zap.Error(err))
	}

	db, err := database.Initialize(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	client, err := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger.Named("backend"))
	if err != nil {
		logger.Fatal("failed to initialize backend client", zap.Error(err))
	}

	sessions := session.NewStore(db, sealer, cfg.SessionTTL, logger.Named("session"))

	h, err := handlers.NewHandlers(db, cfg, client, sessions, logger.Named("handlers"))
	if err != nil {
		logger.Fatal("failed to initialize handlers", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx)
	go sessions.RunPurge(ctx, 10*time.Minute)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(limiter.Middleware)

	// Public routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/login", h.LoginPage).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/register", h.RegisterPage).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")

	// Protected routes
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.RequireSession(sessions, cfg.CookieSecure, logger.Named("auth")))
	protected.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	protected.HandleFunc("/report", h.DownloadReport).Methods("GET")
	protected.HandleFunc("/payment", h.PaymentPage).Methods("GET")
	protected.HandleFunc("/payment", h.SubmitPayment).Methods("POST")
	protected.HandleFunc("/kyc", h.SubmitKYC).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("backend", cfg.BackendURL),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
