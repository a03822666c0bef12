package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"careconnect/internal/config"
	"careconnect/internal/database"
	"careconnect/internal/handlers"
	"careconnect/internal/models"
	"careconnect/internal/repository"
	"careconnect/internal/security"
	"careconnect/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
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
	userRepo := repository.NewUserRepository(db)
	caretakerRepo := repository.NewCaretakerRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTDuration)
	authService := service.NewAuthService(userRepo, caretakerRepo, tokens, cfg.SessionDuration)
	scheduler := service.NewReminderScheduler(medicationRepo, taskRepo, userRepo, notificationRepo, emailService)

	googleOAuth := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService, scheduler, googleOAuth, cfg.OAuthRedirectBaseURL, cfg.AppBaseURL)
	caretakerHandler := handlers.NewCaretakerHandler(caretakerRepo, userRepo, notificationRepo, emailService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentRepo, userRepo, notificationRepo, emailService)
	medicationHandler := handlers.NewMedicationHandler(medicationRepo, assignmentRepo, notificationRepo, emailService, scheduler)
	taskHandler := handlers.NewTaskHandler(taskRepo, assignmentRepo, notificationRepo, emailService, scheduler)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	// Credential endpoints share one rate limiter
	loginLimiter := security.NewRateLimiter(10, time.Minute)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", handlers.RateLimit(loginLimiter, authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", handlers.RateLimit(loginLimiter, authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/user", middleware.RequireAuth(authHandler.CurrentUser))
	mux.HandleFunc("POST /api/auth/token", handlers.RateLimit(loginLimiter, middleware.RequireAuth(authHandler.Token)))
	mux.HandleFunc("GET /api/auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleOAuthCallback)

	// Caretaker search and profiles
	mux.HandleFunc("GET /api/caretakers", middleware.RequireAuth(caretakerHandler.Search))
	mux.HandleFunc("POST /api/caretakers/recommendations", middleware.RequireAuth(caretakerHandler.Recommendations))
	mux.HandleFunc("GET /api/caretakers/profile", middleware.RequireRole(models.RoleCaretaker, caretakerHandler.GetProfile))
	mux.HandleFunc("POST /api/caretakers/profile", middleware.RequireRole(models.RoleCaretaker, caretakerHandler.CreateProfile))
	mux.HandleFunc("PUT /api/caretakers/profile", middleware.RequireRole(models.RoleCaretaker, caretakerHandler.UpdateProfile))
	mux.HandleFunc("GET /api/caretakers/{id}", middleware.RequireAuth(caretakerHandler.Get))
	mux.HandleFunc("POST /api/caretakers/{id}/contact", middleware.RequireAuth(caretakerHandler.Contact))

	// Assignments
	mux.HandleFunc("POST /api/assignments", middleware.RequireRole(models.RolePatient, assignmentHandler.Create))
	mux.HandleFunc("GET /api/assignments", middleware.RequireRole(models.RolePatient, assignmentHandler.ListForPatient))
	mux.HandleFunc("GET /api/patients", middleware.RequireRole(models.RoleCaretaker, assignmentHandler.ListForCaretaker))

	// Medications
	mux.HandleFunc("GET /api/medications", middleware.RequireAuth(medicationHandler.List))
	mux.HandleFunc("POST /api/medications", middleware.RequireAuth(medicationHandler.Create))
	mux.HandleFunc("PUT /api/medications/{id}", middleware.RequireAuth(medicationHandler.Update))
	mux.HandleFunc("DELETE /api/medications/{id}", middleware.RequireAuth(medicationHandler.Delete))
	mux.HandleFunc("POST /api/medications/{id}/logs", middleware.RequireAuth(medicationHandler.LogDose))
	mux.HandleFunc("GET /api/medications/{id}/logs", middleware.RequireAuth(medicationHandler.ListLogs))

	// Tasks
	mux.HandleFunc("GET /api/tasks", middleware.RequireAuth(taskHandler.List))
	mux.HandleFunc("POST /api/tasks", middleware.RequireAuth(taskHandler.Create))
	mux.HandleFunc("PUT /api/tasks/{id}", middleware.RequireAuth(taskHandler.Update))
	mux.HandleFunc("POST /api/tasks/{id}/complete", middleware.RequireAuth(taskHandler.Complete))
	mux.HandleFunc("DELETE /api/tasks/{id}", middleware.RequireAuth(taskHandler.Delete))

	// Notifications
	mux.HandleFunc("GET /api/notifications", middleware.RequireAuth(notificationHandler.List))
	mux.HandleFunc("POST /api/notifications/{id}/read", middleware.RequireAuth(notificationHandler.MarkRead))
	mux.HandleFunc("DELETE /api/notifications/{id}", middleware.RequireAuth(notificationHandler.Delete))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background workers: reminder sweep and session cleanup
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go scheduler.Run(schedulerCtx, cfg.ReminderSweepInterval)
	go cleanupExpiredSessions(authService)

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
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
