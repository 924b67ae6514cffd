package service

import (
	"fmt"
	"sort"

	"fleetops/internal/dispatch/core"
	"fleetops/internal/dispatch/flows"
	"fleetops/pkg/client"
	"fleetops/pkg/logger"
)

type DispatchService struct {
	engine *core.Engine
	client *client.Client
	log    *logger.Logger
}

func NewDispatchService(client *client.Client, log *logger.Logger) *DispatchService {
	engine := core.NewEngine(
		flows.AssignTripFlow{},
		flows.ConfirmAssignmentFlow{},
		flows.DailyManifestFlow{},
	)

	return &DispatchService{
		engine: engine,
		client: client,
		log:    log,
	}
}

func (s *DispatchService) ExecuteFlow(flowName string, input map[string]any) (map[string]any, error) {
	ctx := core.NewFlowContext(input, s.client, s.log)
	if err := s.engine.Run(flowName, ctx); err != nil {
		return nil, fmt.Errorf("flow execution failed: %v", err)
	}
	return ctx.Output, nil
}

func (s *DispatchService) GetAvailableFlows() []string {
	names := s.engine.FlowNames()
	sort.Strings(names)
	return names
}
