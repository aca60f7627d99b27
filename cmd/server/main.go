package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/stayledger/backend/docs"
	"github.com/stayledger/backend/internal/database"
	"github.com/stayledger/backend/internal/handlers"
	"github.com/stayledger/backend/internal/ledger"
	mW "github.com/stayledger/backend/internal/middleware"
	"github.com/stayledger/backend/internal/services"
)

// @title StayLedger Booking API
// @version 1.0
// @description Backend facade for the decentralized hotel booking ledger
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("ledger.rpc_url", "LEDGER_RPC_URL")
	viper.BindEnv("ledger.poll_interval_ms", "LEDGER_POLL_INTERVAL_MS")
	viper.BindEnv("explorer.base_url", "EXPLORER_BASE_URL")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	viper.SetDefault("ledger.rpc_url", "http://localhost:8545")
	viper.SetDefault("ledger.poll_interval_ms", 2000)
	viper.SetDefault("explorer.base_url", "https://explorer.stayledger.io")

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "StayLedger Booking API"
	docs.SwaggerInfo.Description = "Backend facade for the decentralized hotel booking ledger"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	gateway := ledger.NewRPCClient(
		viper.GetString("ledger.rpc_url"),
		ledger.WithPollInterval(time.Duration(viper.GetInt("ledger.poll_interval_ms"))*time.Millisecond),
	)

	journal := services.NewJournalService(redisClient)

	// Mutation outcomes invalidate any cached view a consumer holds.
	refresh := services.WithRefreshSignal(func() {
		log.Println("ledger state changed, consumers should refresh")
	})

	queryService := services.NewQueryService(gateway)
	bookingService := services.NewBookingService(gateway, journal, refresh)
	availabilityService := services.NewAvailabilityService(gateway, journal, refresh)
	reviewService := services.NewReviewService(gateway, journal, refresh)
	receiptService := services.NewReceiptService(viper.GetString("explorer.base_url"))

	roomsHandler := handlers.NewRoomsHandler(queryService, availabilityService, reviewService)
	bookingsHandler := handlers.NewBookingsHandler(queryService, bookingService, journal)
	receiptsHandler := handlers.NewReceiptsHandler(receiptService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Static file server for room imagery
	r.Handle("/static/room-images/*", http.StripPrefix("/static/room-images/",
		mW.StaticFileServer("./static/room-images")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Get("/rooms", roomsHandler.ListRooms)
		r.Get("/rooms/{roomId}", roomsHandler.GetRoom)
		r.Get("/receipts/{txHash}/qr", receiptsHandler.GetReceiptQR)

		// Protected endpoints (wallet session required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Post("/rooms", roomsHandler.AddRoom)
			r.Post("/rooms/{roomId}/availability", roomsHandler.SetAvailability)
			r.Post("/rooms/{roomId}/reviews", roomsHandler.SubmitReview)

			r.Get("/bookings", bookingsHandler.ListBookings)
			r.Post("/bookings", bookingsHandler.CreateBooking)
			r.Get("/bookings/pending", bookingsHandler.PendingSubmissions)

			r.Get("/account/balance", bookingsHandler.Balance)
			r.Get("/account/allowance", bookingsHandler.Allowance)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
