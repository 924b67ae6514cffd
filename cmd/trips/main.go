package main

import (
	"fleetops/internal/trips/events"
	"fleetops/internal/trips/handler"
	"fleetops/internal/trips/repository"
	"fleetops/internal/trips/service"
	"fleetops/internal/trips/validator"
	"fleetops/pkg/app"
	"fleetops/pkg/config"
	kafka_config "fleetops/pkg/kafka/config"
)

const ServiceName = "trips"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Trips service")
	tripService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewTripHandler(tripService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.TripService {
	tripValidator := validator.NewTripValidator(cfg.Log, cfg.MaxEscortVehicles)
	tripRepo := repository.NewMongoTripRepository(cfg)
	lockRepo := repository.NewTripLockRepository(cfg)

	publisher := initPublisher(cfg)

	tripService := service.NewTripService(
		tripRepo,
		lockRepo,
		tripValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Trip service initialized", "database", cfg.MongoDatabaseName)
	return tripService
}

func initPublisher(cfg *config.Config) events.TripEvents {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, trip events will not be published")
		return events.NewNoopTripEvents()
	}

	kcfg := kafka_config.Load()
	kcfg.LogConfiguration(func(msg string, args ...any) { cfg.Log.Info(msg, args...) })

	publisher, err := events.NewKafkaTripEvents(kcfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize trip event publisher", "error", err)
	}
	return publisher
}
