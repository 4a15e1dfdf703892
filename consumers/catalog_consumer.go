package consumers

import (
	"encoding/json"
	"log"

	"github.com/0xDracarys/ABAYA-ecom-v1/config"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// StartCatalogConsumer drains catalog change events. Downstream projections
// (search index, cache warmers) hang off this; for now each event is logged.
func StartCatalogConsumer(ch *amqp.Channel, cfg *config.Config) {
	msgs, err := ch.Consume(
		cfg.CatalogQueue,
		"abaya-shop", // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register consumer: %v", err)
		return
	}

	go func() {
		for msg := range msgs {
			processCatalogMessage(msg)
			_ = msg.Ack(false)
		}
	}()
}

func processCatalogMessage(msg amqp.Delivery) {
	var event models.CatalogEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Failed to unmarshal event: %v", err)
		return
	}

	switch event.EventType {
	case models.EventProductCreated:
		name := ""
		if event.Product != nil {
			name = event.Product.Name
		}
		log.Printf("New product created: %s - %s", event.ProductID, name)
	case models.EventProductUpdated:
		log.Printf("Product updated: %s", event.ProductID)
	case models.EventProductDeleted:
		log.Printf("Product deleted: %s", event.ProductID)
	case models.EventCategoryCreated:
		log.Printf("New category created: %s", event.CategoryID)
	case models.EventTagCreated:
		log.Printf("New tag created: %s", event.TagID)
	default:
		log.Printf("Unknown event type: %s", event.EventType)
	}
}
