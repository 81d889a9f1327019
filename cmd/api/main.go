package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/tashivar/backoffice/pkg/kafka"
	"github.com/tashivar/backoffice/pkg/logging"
	"github.com/tashivar/backoffice/pkg/metrics"
	"github.com/tashivar/backoffice/pkg/middleware"
	"github.com/tashivar/backoffice/pkg/mongodb"
	"github.com/tashivar/backoffice/pkg/resilience"

	"github.com/tashivar/backoffice/internal/application"
	"github.com/tashivar/backoffice/internal/domain"
	mongoRepo "github.com/tashivar/backoffice/internal/infrastructure/mongodb"
)

const serviceName = "backoffice-api"

func main() {
	_ = godotenv.Load()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting backoffice API")

	config := loadConfig()
	ctx := context.Background()

	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	producer := kafka.NewProducer(config.Kafka)
	defer producer.Close()

	breaker := resilience.NewCircuitBreaker(
		resilience.DefaultCircuitBreakerConfig("kafka-notifications"), logger.Logger)

	db := mongoClient.Database()
	orderRepo := mongoRepo.NewOrderRepository(db)
	ledgerRepo := mongoRepo.NewLedgerRepository(db)
	inventoryRepo := mongoRepo.NewInventoryRepository(db)
	challanRepo := mongoRepo.NewChallanRepository(db)
	rulesRepo := mongoRepo.NewCommissionRuleRepository(db)
	notificationRepo := mongoRepo.NewNotificationRepository(db)
	kvRepo := mongoRepo.NewKVRepository(db)

	businessMetrics := middleware.NewBusinessMetrics(m)

	notifier := application.NewNotifier(notificationRepo, producer, breaker, logger, businessMetrics)
	defer notifier.Close()

	inventoryService := application.NewInventoryService(
		ledgerRepo, inventoryRepo, notifier, logger, businessMetrics, config.NegativeStockPolicy)
	orderService := application.NewOrderService(
		orderRepo, rulesRepo, inventoryService, notifier, logger, businessMetrics, config.ReceiptPolicy)
	challanService := application.NewChallanService(
		challanRepo, orderRepo, notifier, logger, businessMetrics)
	commissionService := application.NewCommissionService(rulesRepo, logger)
	notificationService := application.NewNotificationService(notificationRepo, logger)
	kvService := application.NewKVService(kvRepo, logger)

	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	v1 := router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", createOrderHandler(orderService, logger))
			orders.GET("", listOrdersHandler(orderService, logger))
			orders.GET("/status/:status", listOrdersByStatusHandler(orderService, logger))
			orders.GET("/buyer/:buyerId", listOrdersByBuyerHandler(orderService, logger))
			orders.GET("/vendor/:vendorId", listOrdersByVendorHandler(orderService, logger))
			orders.GET("/:orderId", getOrderHandler(orderService, logger))
			orders.PUT("/:orderId", updateOrderHandler(orderService, logger))
			orders.DELETE("/:orderId", deleteOrderHandler(orderService, logger))

			orders.POST("/:orderId/approve", transitionHandler(orderService.ApproveOrder, logger))
			orders.POST("/:orderId/forward-to-vendor", forwardToVendorHandler(orderService, logger))
			orders.POST("/:orderId/vendor-accept", transitionHandler(orderService.VendorAccept, logger))
			orders.POST("/:orderId/vendor-dispatch", dispatchHandler(orderService.VendorDispatch, logger))
			orders.POST("/:orderId/receive-at-warehouse", receiveAtWarehouseHandler(orderService, logger))
			orders.POST("/:orderId/dispatch-to-buyer", dispatchHandler(orderService.DispatchToBuyer, logger))
			orders.POST("/:orderId/mark-delivered", markDeliveredHandler(orderService, logger))
			orders.POST("/:orderId/cancel", cancelOrderHandler(orderService, logger))

			orders.POST("/:orderId/parties/accept", partyActionHandler(orderService.PartyAccept, logger))
			orders.POST("/:orderId/parties/dispatch", partyActionHandler(orderService.PartyDispatch, logger))
			orders.POST("/:orderId/parties/receive", partyActionHandler(orderService.PartyReceive, logger))

			orders.POST("/:orderId/commission/:recipient/mark-paid", markSharePaidHandler(orderService, logger))
		}

		txns := v1.Group("/stock-transactions")
		{
			txns.POST("", recordTransactionHandler(inventoryService, logger))
			txns.GET("", listTransactionsHandler(inventoryService, logger))
			txns.DELETE("", purgeLedgerHandler(inventoryService, logger))
			txns.GET("/summary", stockSummaryHandler(inventoryService, logger))
			txns.GET("/summary/:productId", stockSummaryHandler(inventoryService, logger))
			txns.GET("/:txnId", getTransactionHandler(inventoryService, logger))
		}

		inventory := v1.Group("/inventory")
		{
			inventory.GET("", listInventoryHandler(inventoryService, logger))
			inventory.POST("/sync", syncProductHandler(inventoryService, logger))
			inventory.POST("/sync-catalog", syncCatalogHandler(inventoryService, logger))
			inventory.POST("/check-availability", checkAvailabilityHandler(inventoryService, logger))
			inventory.DELETE("", purgeInventoryHandler(inventoryService, logger))
			inventory.GET("/:productId", getInventoryItemHandler(inventoryService, logger))
			inventory.GET("/:productId/availability", availabilityHandler(inventoryService, logger))
			inventory.POST("/:productId/rebuild", rebuildProjectionHandler(inventoryService, logger))
			inventory.DELETE("/:productId", deleteInventoryItemHandler(inventoryService, logger))
		}

		challans := v1.Group("/challans")
		{
			challans.POST("", createChallanHandler(challanService, logger))
			challans.POST("/from-order/:orderId", createChallanFromOrderHandler(challanService, logger))
			challans.POST("/from-offline-request", createChallanFromOfflineRequestHandler(challanService, logger))
			challans.GET("", listChallansHandler(challanService, logger))
			challans.GET("/:challanNumber", getChallanHandler(challanService, logger))
			challans.POST("/:challanNumber/payment", recordPaymentHandler(challanService, logger))
			challans.POST("/:challanNumber/convert-to-invoice", convertChallanHandler(challanService, logger))
			challans.POST("/:challanNumber/cancel", cancelChallanHandler(challanService, logger))
		}

		rules := v1.Group("/commission-rules")
		{
			rules.GET("", listRulesHandler(commissionService, logger))
			rules.PUT("", upsertRuleHandler(commissionService, logger))
			rules.POST("/preview", previewCommissionHandler(commissionService, logger))
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", listNotificationsHandler(notificationService, logger))
			notifications.PUT("/read-all", markAllReadHandler(notificationService, logger))
			notifications.PUT("/:notifId/read", markReadHandler(notificationService, logger))
		}

		kv := v1.Group("/kv")
		{
			kv.GET("", getBlobHandler(kvService, logger))
			kv.POST("", setBlobHandler(kvService, logger))
			kv.DELETE("", deleteBlobHandler(kvService, logger))
		}
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr          string
	MongoDB             *mongodb.Config
	Kafka               *kafka.Config
	ReceiptPolicy       domain.ReceiptPolicy
	NegativeStockPolicy domain.NegativeStockPolicy
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "backoffice"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: 1,
		},
		ReceiptPolicy:       domain.ReceiptPolicy(getEnv("RECEIPT_POLICY", "all-parties")),
		NegativeStockPolicy: domain.NegativeStockPolicy(getEnv("NEGATIVE_STOCK_POLICY", "allow")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
