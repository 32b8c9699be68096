package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashdeck/internal/config"
	"flashdeck/internal/database"
	"flashdeck/internal/handlers"
	"flashdeck/internal/repository"
	"flashdeck/internal/scheduler"
	"flashdeck/internal/security"
	"flashdeck/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	deckRepo := repository.NewDeckRepository(db)
	stateRepo := repository.NewStateRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize services
	registry := scheduler.NewRegistry()
	deckService := service.NewDeckService(deckRepo, registry)
	sessionService := service.NewSessionService(deckRepo, stateRepo, sessionRepo, reviewRepo, registry, cfg.FaustOffset)
	analyticsService := service.NewAnalyticsService(deckRepo, stateRepo, reviewRepo, registry)
	reminderService := service.NewReminderService(analyticsService)
	exportService := service.NewExportService()

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.EmailFrom, cfg.EmailFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(cfg.RateLimitBurst, cfg.RateLimitWindow)
	middleware := handlers.NewMiddleware(cfg.AuthSecret, limiter)
	deckHandler := handlers.NewDeckHandler(deckService, exportService)
	sessionHandler := handlers.NewSessionHandler(sessionService, deckService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, reminderService, exportService)

	// Setup routes
	mux := http.NewServeMux()

	// Deck authoring
	mux.HandleFunc("POST /api/decks", middleware.RequireAuth(deckHandler.Create))
	mux.HandleFunc("GET /api/decks", middleware.RequireAuth(deckHandler.List))
	mux.HandleFunc("GET /api/decks/{id}", middleware.RequireAuth(deckHandler.Get))
	mux.HandleFunc("POST /api/decks/{id}/cards", middleware.RequireAuth(deckHandler.AddCard))
	mux.HandleFunc("POST /api/decks/{id}/publish", middleware.RequireAuth(deckHandler.Publish))
	mux.HandleFunc("PUT /api/decks/{id}/settings", middleware.RequireAuth(deckHandler.UpdateSettings))
	mux.HandleFunc("GET /api/decks/{id}/export", middleware.RequireAuth(deckHandler.Export))
	mux.HandleFunc("POST /api/decks/{id}/import", middleware.RequireAuth(deckHandler.Import))

	// Study sessions
	mux.HandleFunc("POST /api/sessions", middleware.RequireAuth(sessionHandler.Start))
	mux.HandleFunc("GET /api/sessions/{id}", middleware.RequireAuth(sessionHandler.Get))
	mux.HandleFunc("POST /api/sessions/{id}/answer", middleware.RequireAuth(middleware.RateLimit(sessionHandler.Answer)))
	mux.HandleFunc("POST /api/sessions/{id}/end", middleware.RequireAuth(sessionHandler.End))

	// Analytics and reminders
	mux.HandleFunc("GET /api/decks/{id}/analytics", middleware.RequireAuth(analyticsHandler.Deck))
	mux.HandleFunc("GET /api/analytics", middleware.RequireAuth(analyticsHandler.Overview))
	mux.HandleFunc("GET /api/reminders", middleware.RequireAuth(analyticsHandler.Reminders))

	// Wrap with logging middleware
	handler := middleware.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background reminder digest
	go runReminderDigest(cfg, reminderService, emailService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// runReminderDigest periodically emails the configured recipient their
// deck reminder list. Inactive unless both the digest user and
// recipient are configured and SES is enabled.
func runReminderDigest(cfg *config.Config, reminders *service.ReminderService, email *service.EmailService) {
	if !email.IsEnabled() || cfg.DigestTo == "" || cfg.DigestUser == "" {
		log.Println("Reminder digest disabled")
		return
	}

	ticker := time.NewTicker(cfg.DigestInterval)
	defer ticker.Stop()

	for range ticker.C {
		list, err := reminders.Reminders(cfg.DigestUser)
		if err != nil {
			log.Printf("Error computing reminder digest: %v", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := email.SendReminderDigest(ctx, cfg.DigestTo, cfg.DigestUser, list); err != nil {
			log.Printf("Error sending reminder digest: %v", err)
		}
		cancel()
	}
}
