package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/config"
	"github.com/xavierca1/partners-miniapp/internal/infra/http/handlers"
	"github.com/xavierca1/partners-miniapp/internal/infra/http/middleware"
	"github.com/xavierca1/partners-miniapp/internal/infra/integration/partners"
	"github.com/xavierca1/partners-miniapp/internal/infra/logging"
	"github.com/xavierca1/partners-miniapp/internal/infra/queue"
	"github.com/xavierca1/partners-miniapp/internal/infra/webapp"
	"github.com/xavierca1/partners-miniapp/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.Must(cfg.Env)
	defer logger.Sync()

	if cfg.TelegramBotToken == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN is required to verify init data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Lead events (optional)
	var events usecase.LeadEventPublisher
	var broker handlers.ConnectionState
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()

		events = queue.NewProducer(rabbitMQ.Ch, cfg.RabbitMQExchange)
		broker = rabbitMQ.Conn
	} else {
		logger.Info("RABBITMQ_URL not set, lead events disabled")
	}

	// 2. Partners backend
	client := partners.NewClient(cfg.PartnersAPIURL, cfg.PartnersAPITimeout, logger)

	// 3. Use cases and sessions
	uc := usecase.NewDashboard(events, logger)
	registry := webapp.NewRegistry(func(host usecase.Host, userID int64) usecase.PartnersGateway {
		return client.WithAlerter(host).WithUser(userID)
	}, cfg.SessionTTL)
	go registry.Run(ctx, time.Minute)

	// 4. Handlers
	dashboardHandler := handlers.NewDashboardHandler(registry, uc, logger)
	healthHandler := handlers.NewHealthHandler(broker, cfg.PartnersAPIURL)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.InitDataHeader},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.InitData(cfg.TelegramBotToken, cfg.InitDataMaxAge, logger))
		dashboardHandler.Routes(r)
	})

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
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("partners mini app API listening",
		zap.String("port", cfg.Port),
		zap.String("partners_api", cfg.PartnersAPIURL),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
