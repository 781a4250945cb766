package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantrypal/meal-planner/internal/api"
	"pantrypal/meal-planner/internal/config"
	"pantrypal/meal-planner/internal/repository/mongo"
	"pantrypal/meal-planner/internal/service"
	"pantrypal/meal-planner/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Meal Planner Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureGroupIndexes(ctx, appDB.Collection("groups"), appDB.Collection("group_members"))
		mongo.EnsureRecipeIndexes(ctx, appDB.Collection("recipes"))
		mongo.EnsureWeekPlanIndexes(ctx, appDB.Collection("week_plans"))
		mongo.EnsureCartIndexes(ctx, appDB.Collection("shopping_cart_items"))
		mongo.EnsurePantryIndexes(ctx, appDB.Collection("pantry_items"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	groupRepo := mongo.NewMongoGroupRepository(appDB)
	recipeRepo := mongo.NewMongoRecipeRepository(appDB)
	weekPlanRepo := mongo.NewMongoWeekPlanRepository(appDB)
	cartRepo := mongo.NewMongoCartRepository(appDB)
	pantryRepo := mongo.NewMongoPantryRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	groupService := service.NewGroupService(groupRepo, userRepo)
	recipeService := service.NewRecipeService(recipeRepo, userRepo, groupRepo, fileStorage)
	planService := service.NewPlanService(weekPlanRepo, recipeRepo, userRepo, groupRepo)
	cartService := service.NewCartService(cartRepo, weekPlanRepo, recipeRepo, userRepo, groupRepo)
	pantryService := service.NewPantryService(pantryRepo, userRepo, groupRepo)
	billingService := service.NewBillingService(userRepo, cfg.Billing.WebhookSecret)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		groupService,
		recipeService,
		planService,
		cartService,
		pantryService,
		billingService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
