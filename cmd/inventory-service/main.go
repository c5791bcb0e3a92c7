package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unitstock/unitstock-backend/internal/inventory/events"
	"github.com/unitstock/unitstock-backend/internal/inventory/handler"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/config"
	"github.com/unitstock/unitstock-backend/pkg/database"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/keyvalue"
	"github.com/unitstock/unitstock-backend/pkg/logger"
	"github.com/unitstock/unitstock-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("inventory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("inventory-service", cfg.Server.Environment)
	log.Info().Msg("starting Inventory Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewInventoryEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Suggestion store falls back to memory when Redis is not configured
	var kvStore keyvalue.Store
	if cfg.Redis.Addr != "" {
		redisStore := keyvalue.NewRedisStore(&cfg.Redis)
		defer redisStore.Close()
		kvStore = redisStore
	} else {
		log.Warn().Msg("redis not configured, suggestions are kept in memory only")
		kvStore = keyvalue.NewMemoryStore()
	}

	// Initialize repositories
	itemRepo := repository.NewItemRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	auditService := service.NewAuditService(auditRepo, log)
	itemService := service.NewItemService(itemRepo, publisher, log)
	statusService := service.NewStatusService(itemRepo, auditService, publisher, log)
	locationService := service.NewLocationService(itemRepo, auditService, publisher, log)
	bulkService := service.NewBulkService(statusService, locationService, publisher, cfg.Bulk, log)
	warrantyService := service.NewWarrantyService(itemRepo, cfg.Warranty.WindowDays, log)
	analyticsService := service.NewAnalyticsService(productRepo, log)
	suggestionService := service.NewSuggestionService(kvStore, log)

	// Initialize handlers
	itemHandler := handler.NewItemHandler(itemService, log)
	lifecycleHandler := handler.NewLifecycleHandler(statusService, locationService, log)
	bulkHandler := handler.NewBulkHandler(bulkService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, log)
	warrantyHandler := handler.NewWarrantyHandler(warrantyService, log)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the warranty expiry scanner
	warrantyScheduler := service.NewWarrantyScheduler(warrantyService, publisher, cfg.Warranty.ScanInterval, log)
	warrantyScheduler.Start(ctx)
	defer warrantyScheduler.Stop()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(httputil.ActorMiddleware) // Extract acting user from headers

	// CORS for the point-of-sale web UI
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-User-ID", "X-User-Name", "X-User-Email"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "inventory-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/inventory", func(r chi.Router) {
		// Item routes
		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.List)
			r.Post("/", itemHandler.Create)
			r.Get("/serial/{serial}", itemHandler.GetBySerial)
			r.Get("/{id}", itemHandler.Get)
			r.Put("/{id}/status", lifecycleHandler.SetStatus)
			r.Put("/{id}/location", lifecycleHandler.SetLocation)
			r.Get("/{id}/audit", auditHandler.History)
		})

		// Bulk routes
		r.Route("/bulk", func(r chi.Router) {
			r.Post("/status", bulkHandler.SetStatus)
			r.Post("/location", bulkHandler.SetLocation)
		})

		// Analytics
		r.Get("/analytics/report", analyticsHandler.Report)

		// Warranty
		r.Get("/warranty/expiring", warrantyHandler.ListExpiring)

		// Intake suggestions
		r.Route("/suggestions/{kind}", func(r chi.Router) {
			r.Get("/", suggestionHandler.Get)
			r.Post("/", suggestionHandler.Add)
			r.Delete("/", suggestionHandler.Clear)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop the warranty scanner
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
