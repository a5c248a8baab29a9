package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shii2003/TaskManagementApp/config"
	"github.com/shii2003/TaskManagementApp/handlers"
	"github.com/shii2003/TaskManagementApp/logging"
	"github.com/shii2003/TaskManagementApp/middleware"
	"github.com/shii2003/TaskManagementApp/repositories"
	"github.com/shii2003/TaskManagementApp/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks API...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.MongoDBName)
	userRepo := repositories.NewMongoUserRepository(db.Collection("users"))
	taskRepo := repositories.NewMongoTaskRepository(db.Collection("tasks"))

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	tokenService := services.NewTokenService(cfg.JWTSecret)
	userService := services.NewUserService(userRepo, tokenService)
	taskService := services.NewTaskService(taskRepo, userRepo)

	if err := userService.SeedCollaborators(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: SEED_FAILED, Description: %v", err)
	}

	dbBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MongoHealthCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler(client, dbBreaker)

	protect := middleware.JWTAuth(tokenService)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	r.HandleFunc("/api/health", healthHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)

	users := r.PathPrefix("/api/users").Subrouter()
	users.Use(protect)
	users.HandleFunc("", userHandler.GetUsers).Methods(http.MethodGet)

	tasks := r.PathPrefix("/api/tasks").Subrouter()
	tasks.Use(protect)
	tasks.HandleFunc("", taskHandler.CreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("", taskHandler.GetTasks).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	tasks.HandleFunc("/{id}/status", taskHandler.UpdateTaskStatus).Methods(http.MethodPatch)

	corsRouter := middleware.EnableCORS(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
