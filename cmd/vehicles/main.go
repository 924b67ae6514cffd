package main

import (
	"fleetops/internal/vehicles/handler"
	"fleetops/internal/vehicles/repository"
	"fleetops/internal/vehicles/service"
	"fleetops/internal/vehicles/validator"
	"fleetops/pkg/app"
	"fleetops/pkg/config"
)

const ServiceName = "vehicles"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Vehicles service")
	vehicleService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewVehicleHandler(vehicleService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.VehicleService {
	vehicleValidator := validator.NewVehicleValidator(cfg.Log)
	vehicleRepo := repository.NewMongoVehicleRepository(cfg)
	vehicleService := service.NewVehicleService(
		vehicleRepo,
		vehicleValidator,
		cfg,
	)

	cfg.Log.Info("Vehicle service initialized", "database", cfg.MongoDatabaseName)
	return vehicleService
}
