package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"elementleAPI/handlers"
	"elementleAPI/internal/config"
	"elementleAPI/internal/jobs"
	"elementleAPI/middleware"
	"elementleAPI/services"

	_ "net/http/pprof"
)

var (
	cfg                 *config.Config
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	notificationService *services.NotificationService
	streakService       *services.StreakService
	badgeService        *services.BadgeService
	gameService         *services.GameService
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Println("Clerk initialized successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	userService = services.NewUserService(dbPool)
	notificationService = services.NewNotificationService(dbPool)
	badgeService = services.NewBadgeService(dbPool, userService)
	streakService = services.NewStreakService(dbPool, userService, badgeService)
	gameService = services.NewGameService(dbPool, userService, streakService, badgeService, notificationService)

	middleware.InitPrometheus()
	middleware.SetRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
	middleware.SetMonitoringSecrets(cfg.MetricsUser, cfg.MetricsPass, cfg.PprofSecret)
	services.InitMetrics()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService, gameService)
	gameHandler := handlers.NewGameHandler(gameService)
	streakHandler := handlers.NewStreakHandler(streakService)
	badgeHandler := handlers.NewBadgeHandler(badgeService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, userService)
	webhookHandler := handlers.NewWebhookHandler(userService, cfg.ClerkWebhookSecret)

	scheduler := jobs.NewScheduler(streakService, badgeService, notificationService)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start job scheduler:", err)
	}
	defer scheduler.Stop()

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "elementle-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/puzzle/today", gameHandler.GetTodayPuzzle).Methods("GET")
	protected.HandleFunc("/puzzle", gameHandler.GetPuzzleByDate).Methods("GET")
	protected.HandleFunc("/puzzle/attempt", gameHandler.SubmitAttempt).Methods("POST")

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/stats", userHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/user/calendar", userHandler.GetCalendar).Methods("GET")
	protected.HandleFunc("/user/ranking", badgeHandler.GetRanking).Methods("GET")

	protected.HandleFunc("/streak", streakHandler.GetStreakStatus).Methods("GET")
	protected.HandleFunc("/streak/holiday", streakHandler.GetHolidayStatus).Methods("GET")
	protected.HandleFunc("/streak/holiday", streakHandler.StartHoliday).Methods("POST")
	protected.HandleFunc("/streak/holiday", streakHandler.EndHoliday).Methods("DELETE")
	protected.HandleFunc("/streak/saver", streakHandler.UseStreakSaver).Methods("POST")
	protected.HandleFunc("/streak/saver", streakHandler.DeclineStreakSaver).Methods("DELETE")

	protected.HandleFunc("/badges", badgeHandler.GetBadges).Methods("GET")
	protected.HandleFunc("/badges/acknowledge", badgeHandler.AcknowledgeBadges).Methods("PUT")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := ":" + cfg.Port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
