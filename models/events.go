package models

import (
	"encoding/json"
	"time"
)

const (
	EventProductCreated  = "product_created"
	EventProductUpdated  = "product_updated"
	EventProductDeleted  = "product_deleted"
	EventCategoryCreated = "category_created"
	EventTagCreated      = "tag_created"
)

// CatalogEvent is published on admin catalog mutations. The read path never
// emits events.
type CatalogEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Timestamp  time.Time `json:"timestamp"`
	ProductID  string    `json:"product_id,omitempty"`
	Product    *Product  `json:"product_data,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	TagID      string    `json:"tag_id,omitempty"`
}

func (e *CatalogEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
