package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/config"
	"github.com/xavierca1/partners-miniapp/internal/infra/integration/partners"
	"github.com/xavierca1/partners-miniapp/internal/infra/logging"
	"github.com/xavierca1/partners-miniapp/internal/infra/queue"
	"github.com/xavierca1/partners-miniapp/internal/infra/telegram"
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
		logger.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}
	api.Debug = cfg.IsDevelopment()
	logger.Info("authorized on account", zap.String("username", api.Self.UserName))

	if err := telegram.SetCommands(api); err != nil {
		logger.Warn("failed to set bot commands", zap.Error(err))
	}

	var events usecase.LeadEventPublisher
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()
		events = queue.NewProducer(rabbitMQ.Ch, cfg.RabbitMQExchange)
	}

	client := partners.NewClient(cfg.PartnersAPIURL, cfg.PartnersAPITimeout, logger)
	bot := telegram.NewBot(api,
		func(host usecase.Host, userID int64) usecase.PartnersGateway {
			return client.WithAlerter(host).WithUser(userID)
		},
		usecase.NewDashboard(events, logger),
		logger,
	).WithWebAppURL(cfg.WebAppURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	logger.Info("bot started")
	bot.Run(ctx, updates)
}
