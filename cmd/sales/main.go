package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/reparto-app/reparto-sales-service/internal/auth"
	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/events"
	"github.com/reparto-app/reparto-sales-service/internal/handlers"
	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
	"github.com/reparto-app/reparto-sales-service/internal/server"
	"github.com/reparto-app/reparto-sales-service/internal/service"
)

func main() {
	cfg := config.Load()
	logging.Setup()
	logger := logging.Component("main")

	logger.Info("starting sales-service", "port", cfg.Server.Port)

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := repository.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	customerRepo := repository.NewPostgresCustomerRepository(db, logging.Component("customer-repo"))
	productRepo := repository.NewPostgresProductRepository(db, logging.Component("product-repo"))
	orderRepo := repository.NewPostgresOrderRepository(db, logging.Component("order-repo"))
	saleRepo := repository.NewPostgresSaleRepository(db, logging.Component("sale-repo"), cfg.DebtTolerance)
	operatorRepo := repository.NewPostgresOperatorRepository(db, logging.Component("operator-repo"))

	customerCache := repository.NewRedisCustomerCache(redisClient, cfg.Redis, logging.Component("customer-cache"))
	draftStore := repository.NewRedisDraftStore(redisClient, logging.Component("draft-store"))

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Features.EnableEvents {
		publisher = events.NewKafkaPublisher(cfg.Kafka, logging.Component("kafka-publisher"))
	}
	defer publisher.Close()

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	customerService := service.NewCustomerService(customerRepo, customerCache, cfg)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(orderRepo, customerRepo, productRepo, saleRepo, draftStore, customerCache, publisher, cfg)
	quoteService := service.NewQuoteService(draftStore, customerRepo, productRepo)
	salesService := service.NewSalesService(saleRepo)
	authService := service.NewAuthService(operatorRepo, jwtManager)

	h := handlers.NewHandlers(customerService, productService, orderService, quoteService, salesService, authService, cfg)

	srv := server.New(h, jwtManager, operatorRepo, cfg)

	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"caching", cfg.Features.EnableCaching,
			"events", cfg.Features.EnableEvents)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	slog.Info("database connected", "host", cfg.Database.Host, "name", cfg.Database.Name)
	return db, nil
}
