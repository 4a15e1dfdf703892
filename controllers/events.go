package controllers

import (
	"context"
	"log"
	"time"

	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/0xDracarys/ABAYA-ecom-v1/rabbitmq"
	"github.com/google/uuid"
)

var rabbitMQ *rabbitmq.RabbitMQ

// SetRabbitMQ enables event publishing. The service runs fine without a
// broker; publishing is best-effort and never fails a request.
func SetRabbitMQ(rmq *rabbitmq.RabbitMQ) {
	rabbitMQ = rmq
}

func sendCatalogEvent(ctx context.Context, eventType string, mutate func(*models.CatalogEvent)) {
	if rabbitMQ == nil {
		return
	}

	event := models.CatalogEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
	mutate(&event)

	body, err := event.ToJSON()
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	if err := rabbitMQ.PublishEvent(ctx, body); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
