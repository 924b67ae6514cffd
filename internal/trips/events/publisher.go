package events

import (
	"context"

	"fleetops/pkg/kafka"
	kafka_config "fleetops/pkg/kafka/config"
	kafka_middleware "fleetops/pkg/kafka/middleware"
	"fleetops/pkg/logger"
	"fleetops/pkg/model"
)

const (
	TopicTripEvents = "fleetops.trips"
	TopicTripDLQ    = "fleetops.trips.dlq"

	sourceService = "trips-service"
	schemaVersion = "1"
)

// TripEvents publishes trip lifecycle events. Publishing is best-effort:
// callers log failures but never fail the request over them.
type TripEvents interface {
	Publish(ctx context.Context, eventType string, trip *model.Trip) error
	Close() error
}

type kafkaTripEvents struct {
	producer *kafka.Producer
}

// NewKafkaTripEvents creates a publisher backed by the shared Kafka producer,
// with logging and metrics middleware attached.
func NewKafkaTripEvents(kcfg *kafka_config.Config, log *logger.Logger) (TripEvents, error) {
	producer, err := kafka.NewProducer(kcfg, TopicTripEvents, TopicTripDLQ)
	if err != nil {
		return nil, err
	}

	if kcfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	return &kafkaTripEvents{producer: producer}, nil
}

func (p *kafkaTripEvents) Publish(ctx context.Context, eventType string, trip *model.Trip) error {
	msg := kafka.NewMessage().
		WithKey(trip.ID).
		WithValue(trip).
		WithEventType(eventType).
		WithSource(sourceService).
		WithSchemaVersion(schemaVersion).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaTripEvents) Close() error {
	return p.producer.Close()
}

type noopTripEvents struct{}

// NewNoopTripEvents returns a publisher that drops events. Used when Kafka
// is disabled.
func NewNoopTripEvents() TripEvents {
	return noopTripEvents{}
}

func (noopTripEvents) Publish(context.Context, string, *model.Trip) error { return nil }
func (noopTripEvents) Close() error                                       { return nil }
