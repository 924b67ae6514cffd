package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fleetops/internal/dispatch/api"
	"fleetops/internal/dispatch/audit"
	"fleetops/pkg/client"
	kafka_config "fleetops/pkg/kafka/config"
	"fleetops/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:   envOr("LOG_LEVEL", "info"),
		Format:  logger.JSON,
		Service: "dispatch",
	})

	tripsURL := envOr("TRIPS_URL", "http://localhost:8080")
	driversURL := envOr("DRIVERS_URL", "http://localhost:8081")
	vehiclesURL := envOr("VEHICLES_URL", "http://localhost:8082")
	port := envOr("DISPATCH_PORT", "8090")

	apiClient := client.NewClient()
	apiClient.SetServiceClients(tripsURL, driversURL, vehiclesURL)

	router := api.SetupRouter(apiClient, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if os.Getenv("KAFKA_ENABLED") == "true" {
		startAuditor(ctx, log)
	}

	addr := ":" + port
	log.Info("Starting Dispatch API server",
		"address", addr,
		"trips_url", tripsURL,
		"drivers_url", driversURL,
		"vehicles_url", vehiclesURL,
	)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func startAuditor(ctx context.Context, log *logger.Logger) {
	kcfg := kafka_config.Load()

	auditor, err := audit.NewTripAuditor(kcfg, log)
	if err != nil {
		log.Fatal("Failed to initialize trip auditor", "error", err)
	}

	go func() {
		if err := auditor.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("Trip auditor stopped", "error", err)
		}
	}()
}

func envOr(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
