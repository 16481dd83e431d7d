package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	adminauth "github.com/jackofish/market/internal/admin/auth"
	"github.com/jackofish/market/internal/api"
	cartservice "github.com/jackofish/market/internal/cart/service"
	cartstore "github.com/jackofish/market/internal/cart/store"
	catalogrepo "github.com/jackofish/market/internal/catalog/repository"
	catalogservice "github.com/jackofish/market/internal/catalog/service"
	"github.com/jackofish/market/internal/contact"
	"github.com/jackofish/market/internal/db"
	"github.com/jackofish/market/internal/orders/publisher"
	ordersrepo "github.com/jackofish/market/internal/orders/repository"
	ordersservice "github.com/jackofish/market/internal/orders/service"
)

type Config struct {
	HTTPPort        string
	DB              db.Credentials
	RedisAddr       string
	MongoURI        string
	MongoDatabase   string
	KafkaBrokers    []string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		DB: db.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "storefront"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "storefront"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	cfg := loadConfig()

	sqlDB, err := db.Connect(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(sqlDB, cfg.DB.MigrationsDirPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to ping redis: %v", err)
	}

	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoDB, err := contact.ConnectMongoDB(mongoCtx, cfg.MongoURI, cfg.MongoDatabase)
	mongoCancel()
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}

	catalogRepo := catalogrepo.NewRepository(sqlDB)
	catalogSvc := catalogservice.NewCatalogService(catalogRepo)

	cartSvc := cartservice.NewCartService(cartstore.NewRedisStore(redisClient))

	orderRepo := ordersrepo.NewRepository(sqlDB)
	orderSvc := ordersservice.NewOrderService(orderRepo, catalogRepo)

	contactSvc := contact.NewService(contact.NewMongoRepository(mongoDB))

	authSvc := adminauth.NewService(
		adminauth.NewRepository(sqlDB),
		adminauth.NewRedisSessionStore(redisClient),
	)

	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	poller := publisher.NewOutboxPoller(orderRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	router := api.NewRouter(api.Handlers{
		Cart:         api.NewCartHandler(cartSvc, catalogSvc),
		Catalog:      api.NewCatalogHandler(catalogSvc),
		Checkout:     api.NewCheckoutHandler(cartSvc, orderSvc),
		Contact:      api.NewContactHandler(contactSvc),
		AdminAuth:    api.NewAdminAuthHandler(authSvc),
		AdminCatalog: api.NewAdminCatalogHandler(catalogSvc),
		AdminOrders:  api.NewAdminOrdersHandler(orderSvc),
	}, authSvc)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	pollerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped")
}
