package main

import (
	"fleetops/internal/drivers/handler"
	"fleetops/internal/drivers/repository"
	"fleetops/internal/drivers/service"
	"fleetops/internal/drivers/validator"
	"fleetops/pkg/app"
	"fleetops/pkg/config"
)

const ServiceName = "drivers"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Drivers service")
	driverService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewDriverHandler(driverService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.DriverService {
	driverValidator := validator.NewDriverValidator(cfg.Log)
	driverRepo := repository.NewMongoDriverRepository(cfg)
	driverService := service.NewDriverService(
		driverRepo,
		driverValidator,
		cfg,
	)

	cfg.Log.Info("Driver service initialized", "database", cfg.MongoDatabaseName)
	return driverService
}
