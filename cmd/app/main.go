package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	config := getConfig(logger)

	db := mustConnectDB(config, logger)

	root := cmd.NewCompositionRoot(config, db, logger)
	defer root.Close()

	jobManager := root.CreateJobManager(config)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(root, config.HTTPPort)
}

func getConfig(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, reading configuration from environment")
	}

	return cmd.Config{
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		DBHost:                 envOrDefault("DB_HOST", "localhost"),
		DBPort:                 envOrDefault("DB_PORT", "5432"),
		DBUser:                 envOrDefault("DB_USER", "postgres"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 envOrDefault("DB_NAME", "dispatch"),
		DBSslMode:              envOrDefault("DB_SSLMODE", "disable"),
		AssignmentSchedule:     envOrDefault("ASSIGNMENT_SCHEDULE", "*/10 * * * * *"),
		ReconciliationSchedule: envOrDefault("RECONCILIATION_SCHEDULE", "0 */5 * * * *"),
		EventBufferSize:        envIntOrDefault("EVENT_BUFFER_SIZE", 256),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func mustConnectDB(config cmd.Config, logger *slog.Logger) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser,
		config.DBPassword, config.DBName, config.DBSslMode)

	// TranslateError turns the driver's duplicate key violation into
	// gorm.ErrDuplicatedKey, which the driver repository depends on.
	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err = db.AutoMigrate(&deliveryrepo.DeliveryDTO{}, &driverrepo.DriverDTO{}); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return db
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpadapter.NewServer(
		root.CreateCreateDeliveryCommandHandler(),
		root.CreateTransitionDeliveryCommandHandler(),
		root.CreateAssignDriverCommandHandler(),
		root.CreateRegisterDriverCommandHandler(),
		root.CreateSetDriverAvailabilityCommandHandler(),
		root.CreateReportDriverLocationCommandHandler(),
		root.CreateRunAssignmentPassCommandHandler(),
		root.CreateGetDeliveryQueryHandler(),
		root.CreateGetDeliveriesQueryHandler(),
		root.CreateGetAvailableDriversQueryHandler(),
		root.CreateGetDriverStatsQueryHandler(),
		root.VersionConflictsCounter(),
	)
	server.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
