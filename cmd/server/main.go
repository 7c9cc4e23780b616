package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/parasports/idcard/internal/config"
	"github.com/parasports/idcard/internal/handlers"
	appMiddleware "github.com/parasports/idcard/internal/middleware"
	"github.com/parasports/idcard/internal/services"
)

func main() {
	cfg := config.Load()

	// Player registry: Mongo in production, JSON file store otherwise.
	var players services.PlayerStore
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoPlayers, err := services.NewMongoPlayerService(ctx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoPlayers.Close(context.Background())
		players = mongoPlayers
		log.Printf("Player registry backed by MongoDB (%s)", cfg.MongoDB)
	} else {
		filePlayers, err := services.NewFilePlayerService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open file player store: %v", err)
		}
		players = filePlayers
		log.Printf("MONGODB_URI not set, player registry backed by %s", cfg.DataDir)
	}

	cardService := services.NewIDCardService(cfg.Card)
	if err := cardService.EnsureOutputDir(); err != nil {
		log.Fatalf("Failed to create ID card output directory: %v", err)
	}

	uploadService, err := services.NewUploadService(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	userService := services.NewUserService()
	otpService := services.NewOTPService(cfg.OTPTTL)
	defer otpService.Close()
	mailer := services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.OTPFromEmail)

	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpiration)
	playerHandler := handlers.NewPlayerHandler(players)
	idcardHandler := handlers.NewIDCardHandler(players, cardService, otpService, mailer, cfg.Card.OutputDir)
	uploadHandler := handlers.NewUploadHandler(uploadService, cfg.MaxUploadSizeMB)

	limiter := appMiddleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"Para Sports ID Card API","endpoints":["/api/players","/api/idcards","/api/users"]}`))
	})
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(appMiddleware.JWTAuth(cfg.JWTSecret)).Get("/me", authHandler.Me)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.ListPlayers)
			r.Get("/{playerId}", playerHandler.GetPlayer)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
				r.Post("/", playerHandler.CreatePlayer)
				r.Put("/{playerId}", playerHandler.UpdatePlayer)
				r.Delete("/{playerId}", playerHandler.DeletePlayer)
			})
		})

		r.Route("/idcards", func(r chi.Router) {
			r.Post("/generate", idcardHandler.GenerateCard)
			r.Get("/download/{playerId}", idcardHandler.DownloadCard)
			r.Post("/send-otp", idcardHandler.SendOTP)
			r.Post("/verify-otp", idcardHandler.VerifyOTP)
			r.Post("/search", idcardHandler.SearchPlayer)
		})

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
			r.Post("/upload", uploadHandler.Upload)
			r.Delete("/upload/{uploadId}", uploadHandler.Delete)
		})
	})

	// Serve uploaded photos and generated cards
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	r.Handle("/idcards/*", http.StripPrefix("/idcards/", http.FileServer(http.Dir(cfg.Card.OutputDir))))

	log.Printf("Para Sports ID card API starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
