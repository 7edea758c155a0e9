package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"strings"
	"time"

	"github.com/guruqool/gurukul/internal/infrastructure/configs"
	"github.com/guruqool/gurukul/internal/infrastructure/events"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/messaging"
	"github.com/guruqool/gurukul/internal/infrastructure/payment"
	"github.com/guruqool/gurukul/internal/infrastructure/ratelimiter"
	"github.com/guruqool/gurukul/internal/infrastructure/tracing"
	"github.com/guruqool/gurukul/internal/infrastructure/ws"
	"github.com/guruqool/gurukul/internal/persistence/db"
	"github.com/guruqool/gurukul/internal/persistence/repository"
	"github.com/guruqool/gurukul/internal/presentation/api"
	"github.com/guruqool/gurukul/internal/presentation/handler/chat"
	"github.com/guruqool/gurukul/internal/presentation/handler/health"
	"github.com/guruqool/gurukul/internal/presentation/handler/payments"
	"github.com/guruqool/gurukul/internal/presentation/handler/transactions"
)

const (
	serviceName = "gurukul-api"
)

func main() {
	logger := logging.NewLogger(logging.NewDefaultConfig())

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	sh, err := tracing.Init(serviceName, cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	mongoCfg := &db.MongoConfig{
		URI:               cfg.Mongo.URI,
		Database:          cfg.Mongo.Database,
		ConnectionTimeout: 10 * time.Second,
	}
	mongoClient, err := db.NewMongoClient(ctx, mongoCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()

		if err := db.DisconnectMongo(disconnectCtx, mongoClient); err != nil {
			logger.Error(logging.Mongo, logging.Shutdown, "failed to disconnect mongodb", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}()

	database := db.GetDatabase(mongoClient, mongoCfg)
	transactionRepository := repository.NewTransactionRepository(database)

	rabbitmq, err := messaging.NewRabbitMQ(cfg.AMQP.URI)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitmq.Close()

	logger.Info(logging.RabbitMQ, logging.Startup, "rabbitmq connection established", nil)

	orderPublisher := events.NewOrderPublisher(rabbitmq)

	orderConsumer := events.NewOrderConsumer(rabbitmq, transactionRepository, logger)
	go func() {
		if err := orderConsumer.Listen(); err != nil {
			logger.Error(logging.RabbitMQ, logging.ExternalService, "order consumer stopped", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}()

	registry := ws.NewRegistry()
	core := ws.NewCore(registry, logger)
	go core.Run(ctx)

	paymentClient := payment.NewClient(payment.Config{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
		Timeout:   cfg.Payment.Timeout,
	})

	paymentsHandler := payments.NewHandler(paymentClient, cfg.Payment.Currency, orderPublisher, logger)
	chatHandler := chat.NewHandler(core, registry, cfg.Relay, cfg.HTTP.AllowedOrigins, logger)
	transactionsHandler := transactions.NewHandler(transactionRepository, logger)
	healthHandler := health.NewHandler()

	var cache ratelimiter.GetterSetter
	if strings.EqualFold(cfg.RateLimiter.Backend, "redis") {
		cache = ratelimiter.NewRedis(cfg.RateLimiter.RedisAddr)
	} else {
		cache = ratelimiter.NewInMemory()
	}

	rl := ratelimiter.New(ratelimiter.Options{
		Window:          cfg.RateLimiter.Window,
		MaxRequests:     cfg.RateLimiter.MaxRequests,
		Cache:           cache,
		CacheTTL:        cfg.RateLimiter.CacheTTL,
		SourceHeaderKey: cfg.RateLimiter.SourceHeaderKey,
	})

	app := api.NewApplication(*cfg, paymentsHandler, chatHandler, transactionsHandler, healthHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.Internal, logging.Shutdown, "server exited with error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
