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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/controllers"
	"resto-api/logger"
	"resto-api/middlewares"
	"resto-api/notify"
	"resto-api/routes"
	"resto-api/seeders"
	"resto-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	appLog := logger.New("resto-api", cfg.LogLevel)

	// connect db
	db, err := config.ConnectDatabase(cfg.DB)
	if err != nil {
		appLog.Error("db_connection_failed", "startup", "Failed to connect to database", err)
		os.Exit(1)
	}
	appLog.Info("db_connected", "startup", "Connected to database")

	var dispatcher notify.Dispatcher = notify.NewNoopDispatcher(appLog)
	if cfg.RabbitMQURL != "" {
		rabbit, err := notify.NewRabbitDispatcher(cfg.RabbitMQURL, cfg.RabbitMQExchange, appLog)
		if err != nil {
			appLog.Error("rabbitmq_connection_failed", "startup", "Real-time notifications disabled", err)
		} else {
			defer rabbit.Close()
			dispatcher = rabbit
		}
	}

	uow := services.NewUnitOfWork(db)
	sockets := services.NewSocketRegistry(db)
	orderService := services.NewOrderService(db, uow, sockets, appLog, cfg.TxTimeout)
	promotionService := services.NewPromotionService(db, appLog)
	settlementService := services.NewSettlementService(db, uow, orderService, promotionService, appLog, cfg.TxTimeout, cfg.LoyaltyPointUnit)

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), middlewares.RequestLogger(appLog))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{middlewares.RequestIDHeader},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Orders:     controllers.NewOrderController(orderService, settlementService, dispatcher, appLog),
		Promotions: controllers.NewPromotionController(promotionService, appLog),
		Health:     controllers.NewHealthController(db),
	}, cfg.JWTSecret)

	if cfg.Seed {
		if err := seeders.Seed(context.Background(), db, sockets); err != nil {
			appLog.Error("seed_failed", "startup", "Failed to seed data", err)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLog.Info("service_started", "startup", "Listening on :"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server_failed", "startup", "HTTP server failed", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("graceful_shutdown", "shutdown", "Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("shutdown_failed", "shutdown", "Graceful shutdown failed", err)
	}
}
