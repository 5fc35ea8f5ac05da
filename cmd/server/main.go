package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Dias221467/Social_Circle/internal/cache"
	"github.com/Dias221467/Social_Circle/internal/config"
	"github.com/Dias221467/Social_Circle/internal/database"
	"github.com/Dias221467/Social_Circle/internal/handlers"
	"github.com/Dias221467/Social_Circle/internal/repository"
	"github.com/Dias221467/Social_Circle/internal/services"
	"github.com/Dias221467/Social_Circle/pkg/logger"
	"github.com/Dias221467/Social_Circle/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	client, db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer database.Disconnect(client)

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	if err := friendRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create friend request indexes: %v", err)
	}

	// Optional recommendation cache
	var recoCache services.RecommendationCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.Connect(cfg)
		if err != nil {
			log.Fatalf("Redis connection error: %v", err)
		}
		defer redisCache.Close()
		recoCache = redisCache
		logger.Log.Info("Recommendation cache enabled")
	}

	// --- Services ---
	userService := services.NewUserService(userRepo)
	friendService := services.NewFriendService(userRepo, friendRepo, recoCache)
	recommendationService := services.NewRecommendationService(userRepo, recoCache)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	friendHandler := handlers.NewFriendHandler(friendService, recommendationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public auth routes
	router.HandleFunc("/auth/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/auth/login", userHandler.LoginUserHandler).Methods("POST")

	protectedAuthRoutes := router.PathPrefix("/auth").Subrouter()
	protectedAuthRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAuthRoutes.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protectedFriendRoutes.HandleFunc("/search", userHandler.SearchUsersHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.SendFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests/{requestId}", friendHandler.RespondToFriendRequestHandler).Methods("PUT")
	protectedFriendRoutes.HandleFunc("/recommendations", friendHandler.GetRecommendationsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("", friendHandler.GetFriendsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/{friendId}", friendHandler.RemoveFriendHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
