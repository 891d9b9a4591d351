package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/accretegeo-dev/traccar-backend/cmd"
	"github.com/accretegeo-dev/traccar-backend/internal/container"
	"github.com/accretegeo-dev/traccar-backend/internal/core/logger"
	"github.com/accretegeo-dev/traccar-backend/internal/database"
	"github.com/accretegeo-dev/traccar-backend/internal/devices"
	"github.com/accretegeo-dev/traccar-backend/internal/middleware"
	"github.com/accretegeo-dev/traccar-backend/internal/routes"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	if err := database.RunMigrations(db, "./migrations"); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	appContainer := container.NewAppContainer(db, zapLogger)

	if err := devices.Seed(appContainer.DeviceRepository); err != nil {
		log.Fatalf("Device seeding failed: %v", err)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))
	routes.RegisterAPIRoutes(router, appContainer)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
