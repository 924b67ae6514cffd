package api

import (
	"net/http"

	"fleetops/internal/dispatch/handlers"
	"fleetops/internal/dispatch/service"
	"fleetops/pkg/client"
	"fleetops/pkg/logger"
)

func SetupRouter(client *client.Client, log *logger.Logger) *http.ServeMux {
	dispatchService := service.NewDispatchService(client, log)
	flowHandler := handlers.NewFlowHandler(dispatchService, log)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/dispatch/execute", flowHandler.ExecuteFlow)
	mux.HandleFunc("/api/v1/dispatch/flows", flowHandler.ListFlows)
	mux.HandleFunc("/api/v1/dispatch/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}
