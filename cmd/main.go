package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/adapter/postgres"
	"github.com/greyden/greyden/internal/adapter/rabbitmq"
	"github.com/greyden/greyden/internal/app/menu"
	"github.com/greyden/greyden/internal/app/order"
	"github.com/greyden/greyden/internal/app/promo"
	"github.com/greyden/greyden/internal/config"

	amqpAdapter "github.com/greyden/greyden/internal/adapter/amqp"
	httpAdapter "github.com/greyden/greyden/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "api-server", "Service mode: api-server, notification-subscriber, import-menu")
	port := flag.Int("port", 3000, "HTTP port (api-server)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	menuPath := flag.String("path", "menu.json", "Path to menu JSON file (import-menu)")
	wipe := flag.Bool("wipe", false, "Delete existing menu data before importing (import-menu)")
	flag.Parse()

	// Optional .env for deployment secrets; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	switch *mode {
	case "api-server":
		runAPIServer(ctx, cfg, lgr, *port)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, cfg, lgr)

	case "import-menu":
		runMenuImport(ctx, cfg, lgr, *menuPath, *wipe)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPIServer(ctx context.Context, cfg *config.Config, lgr logger.Logger, port int) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	if err := postgres.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	orderRepo := postgres.NewOrderRepository(db)
	menuRepo := postgres.NewMenuRepository(db)
	promoRepo := postgres.NewPromoRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)

	orderService := order.NewService(orderRepo, promoRepo, customerRepo, publisher, lgr)
	menuService := menu.NewService(menuRepo, lgr)
	promoService := promo.NewService(promoRepo, lgr)

	orderHandler := httpAdapter.NewOrderHandler(orderService, lgr)
	menuHandler := httpAdapter.NewMenuHandler(menuService, lgr)
	promoHandler := httpAdapter.NewPromoHandler(promoService, lgr)
	customerHandler := httpAdapter.NewCustomerHandler(orderService, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/", orderHandler.HandleOrders)
	mux.HandleFunc("/api/menu/", menuHandler.HandleMenu)
	mux.HandleFunc("/api/promo-codes/", promoHandler.HandlePromoCodes)
	mux.HandleFunc("/api/customers/", customerHandler.HandleCustomers)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API server started on port %d", port), "startup", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification subscriber started", "startup", nil)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := consumer.ConsumeStatusChanges(consumeCtx, notificationHandler.HandleStatusChange); err != nil && consumeCtx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming status changes", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
}

func runMenuImport(ctx context.Context, cfg *config.Config, lgr logger.Logger, path string, wipe bool) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	menuService := menu.NewService(postgres.NewMenuRepository(db), lgr)

	result, err := menuService.Import(ctx, path, wipe)
	if err != nil {
		log.Fatalf("Menu import failed: %v", err)
	}

	fmt.Printf("Categories created: %d, updated: %d\n", result.CategoriesCreated, result.CategoriesUpdated)
	fmt.Printf("Items created: %d, updated: %d, skipped: %d\n", result.ItemsCreated, result.ItemsUpdated, result.ItemsSkipped)
}
