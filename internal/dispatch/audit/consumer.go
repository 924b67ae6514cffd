package audit

import (
	"context"

	"fleetops/internal/trips/events"
	"fleetops/pkg/kafka"
	kafka_config "fleetops/pkg/kafka/config"
	kafka_middleware "fleetops/pkg/kafka/middleware"
	"fleetops/pkg/logger"
	"fleetops/pkg/model"
)

const consumerGroup = "dispatch-audit"

// TripAuditor consumes trip events and writes a structured audit line per
// event, giving dispatchers a searchable trail of fleet changes.
type TripAuditor struct {
	consumer *kafka.Consumer
	log      *logger.Logger
}

func NewTripAuditor(kcfg *kafka_config.Config, log *logger.Logger) (*TripAuditor, error) {
	a := &TripAuditor{log: log}

	consumer, err := kafka.NewConsumer(kcfg, events.TopicTripEvents, consumerGroup, events.TopicTripDLQ, a.handle)
	if err != nil {
		return nil, err
	}

	if kcfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	}

	a.consumer = consumer
	return a, nil
}

func (a *TripAuditor) Start(ctx context.Context) error {
	a.log.Info("Trip auditor starting", "topic", events.TopicTripEvents, "group", consumerGroup)
	return a.consumer.Start(ctx)
}

func (a *TripAuditor) Close() error {
	return a.consumer.Close()
}

func (a *TripAuditor) handle(ctx context.Context, msg kafka.Message) error {
	var trip model.Trip
	if err := msg.DecodeValue(&trip); err != nil {
		// Undecodable payloads are permanent failures; retrying cannot help.
		return kafka.NewPermanentError("decode trip event", err)
	}

	a.log.Info("trip event",
		"event_type", msg.GetEventType(),
		"event_id", msg.GetEventID(),
		"trip_id", trip.ID,
		"driver_id", trip.DriverID,
		"vehicle_id", trip.VehicleID,
		"date", trip.Date,
		"start_time", trip.StartTime,
		"status", trip.Status,
	)
	return nil
}
