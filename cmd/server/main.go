package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront-service/config"
	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/broker"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/middleware"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/postgres"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/search"
	"github.com/jmoiron/sqlx"

	cartH "github.com/fekuna/omnipos-storefront-service/internal/cart/handler"
	cartListenerPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/listener"
	cartRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/usecase"

	catalogPkg "github.com/fekuna/omnipos-storefront-service/internal/catalog"
	catalogH "github.com/fekuna/omnipos-storefront-service/internal/catalog/handler"
	catalogRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/catalog/repository"
	catalogUCPkg "github.com/fekuna/omnipos-storefront-service/internal/catalog/usecase"

	chatH "github.com/fekuna/omnipos-storefront-service/internal/chat/handler"
	chatRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/chat/repository"
	chatUCPkg "github.com/fekuna/omnipos-storefront-service/internal/chat/usecase"

	checkoutH "github.com/fekuna/omnipos-storefront-service/internal/checkout/handler"
	checkoutPubPkg "github.com/fekuna/omnipos-storefront-service/internal/checkout/publisher"
	checkoutRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/checkout/repository"
	checkoutUCPkg "github.com/fekuna/omnipos-storefront-service/internal/checkout/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	cartEvictInterval = 5 * time.Minute
	cartMaxIdle       = time.Hour
	shutdownTimeout   = 10 * time.Second
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// 3. Initialize i18n
	tr, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Optional backends
	db := connectPostgres(ctx, cfg, appLogger)
	if db != nil {
		defer db.Close()
	}

	redisClient := connectRedis(cfg, appLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	esClient := connectElastic(cfg, appLogger)

	// 5. Cart
	cartUC := cartUCPkg.NewCartUseCase(cartStorage(cfg, db, redisClient, appLogger), appLogger)
	go cartUCPkg.RunEvictor(ctx, cartUC, cartEvictInterval, cartMaxIdle, appLogger)

	// 6. Catalog
	catalogOpts := catalogUCPkg.Options{
		IndexName:    cfg.Elastic.Index,
		ProductLimit: cfg.Shopify.DefaultPageLimit,

		CollectionLimit: cfg.Shopify.CollectionsLimit,
	}
	if redisClient != nil {
		catalogOpts.Cache = redisClient
	}
	if esClient != nil {
		catalogOpts.Index = esClient
	}
	catalogUC := catalogUCPkg.NewCatalogUseCase(
		catalogSource(cfg, db, appLogger),
		catalogRepoPkg.NewFallbackSource(),
		catalogOpts,
		appLogger,
	)

	// 7. Chat
	assistant := chatRepoPkg.NewXAIAssistant(chatRepoPkg.XAIConfig{
		APIKey:  cfg.XAI.APIKey,
		BaseURL: cfg.XAI.BaseURL,
		Model:   cfg.XAI.Model,
		Timeout: cfg.XAI.RequestTimeout,
	})
	chatUC := chatUCPkg.NewChatUseCase(assistant, catalogUC, tr, appLogger)

	// 8. Checkout
	var publisher checkout.Publisher = checkoutPubPkg.NewLocalPublisher(cartUC)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaCfg := &broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic, GroupID: cfg.Kafka.GroupID}

		producer := broker.NewProducer(kafkaCfg)
		defer producer.Close()
		publisher = checkoutPubPkg.NewKafkaPublisher(producer)

		consumer := broker.NewConsumer(kafkaCfg)
		defer consumer.Close()
		go cartListenerPkg.NewOrderListener(consumer, cartUC, appLogger).Start(ctx)

		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		appLogger.Info("Kafka not configured, order events are handled in process")
	}

	checkoutOpts := checkoutUCPkg.Options{
		Delay:   cfg.Checkout.SimulatedDelay,
		LockTTL: cfg.Checkout.LockTTL,
	}
	if db != nil {
		checkoutOpts.Repository = checkoutRepoPkg.NewPGRepository(db)
	}
	if redisClient != nil {
		checkoutOpts.Locker = redisClient
	}
	checkoutUC := checkoutUCPkg.NewCheckoutUseCase(cartUC, publisher, checkoutOpts, appLogger)

	// 9. HTTP Server
	if cfg.Server.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Session(), middleware.RequestLogger(appLogger))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	catalogH.NewCatalogHandler(catalogUC, tr, appLogger).Register(api)
	cartH.NewCartHandler(cartUC, catalogUC, tr, appLogger).Register(api)
	chatH.NewChatHandler(chatUC, tr, appLogger).Register(api)
	checkoutH.NewCheckoutHandler(checkoutUC, tr, appLogger).Register(api)

	httpServer := &http.Server{
		Addr: normalizePort(cfg.Server.HTTPPort),
		Handler: cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Accept-Language", middleware.SessionHeader},
			ExposedHeaders:   []string{middleware.SessionHeader},
			AllowCredentials: true,
		}).Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 10. gRPC health
	grpcPort := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	cartUC.Evict(0)
	appLogger.Info("Server stopped")
}

func connectPostgres(ctx context.Context, cfg *config.Config, log logger.ZapLogger) *sqlx.DB {
	if cfg.Postgres.Host == "" {
		log.Info("Postgres not configured")
		return nil
	}

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		log.Fatal("Could not connect to database", zap.Error(err))
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("Could not migrate database", zap.Error(err))
	}
	log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
	return db
}

func connectRedis(cfg *config.Config, log logger.ZapLogger) *cache.RedisClient {
	if cfg.Redis.Addr == "" {
		log.Info("Redis not configured")
		return nil
	}

	client, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Could not connect to Redis (caching and checkout locks disabled)", zap.Error(err))
		return nil
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	return client
}

func connectElastic(cfg *config.Config, log logger.ZapLogger) *search.Client {
	if len(cfg.Elastic.Addresses) == 0 {
		log.Info("Elasticsearch not configured")
		return nil
	}

	client, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		log.Warn("Could not connect to Elasticsearch (search falls back to in-memory filtering)", zap.Error(err))
		return nil
	}
	log.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	return client
}

func cartStorage(cfg *config.Config, db *sqlx.DB, redisClient *cache.RedisClient, log logger.ZapLogger) cart.Storage {
	switch strings.ToLower(cfg.Cart.Storage) {
	case "redis":
		if redisClient != nil {
			return cartRepoPkg.NewRedisStorage(redisClient, cfg.Cart.TTL)
		}
	case "postgres":
		if db != nil {
			return cartRepoPkg.NewPGStorage(db)
		}
	case "memory", "":
		return cartRepoPkg.NewMemoryStorage()
	}
	log.Warn("cart storage backend unavailable, keeping carts in memory", zap.String("storage", cfg.Cart.Storage))
	return cartRepoPkg.NewMemoryStorage()
}

func catalogSource(cfg *config.Config, db *sqlx.DB, log logger.ZapLogger) catalogPkg.Source {
	if strings.EqualFold(cfg.Shopify.ProductSourceKind, "postgres") {
		if db != nil {
			return catalogRepoPkg.NewPGSource(db)
		}
		log.Warn("PRODUCT_SOURCE=postgres but Postgres is not configured, using Shopify")
	}
	return catalogRepoPkg.NewShopifySource(catalogRepoPkg.ShopifyConfig{
		StoreDomain:     cfg.Shopify.StoreDomain,
		StorefrontToken: cfg.Shopify.StorefrontToken,
		APIVersion:      cfg.Shopify.APIVersion,
		Timeout:         cfg.Shopify.RequestTimeout,
	})
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
