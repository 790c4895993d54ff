package service

import (
	"encoding/json"
	"fmt"

	"go-catalog-admin/internal/model"

	"go.uber.org/zap"
)

const eventType = "catalog_update"

const (
	ActionProductCreated  = "product_created"
	ActionProductUpdated  = "product_updated"
	ActionProductDeleted  = "product_deleted"
	ActionProductRestored = "product_restored"
	ActionProductPurged   = "product_purged"
	ActionStockAdjusted   = "stock_adjusted"
)

// Publisher fans catalog events out to listeners, e.g. the websocket hub.
type Publisher interface {
	Publish(message []byte)
}

type noopPublisher struct{}

func (noopPublisher) Publish([]byte) {}

// Actor identifies who performed a mutation.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// SystemActor is used when no authenticated user is attached to a request.
var SystemActor = Actor{ID: "system", Name: "System"}

func (a Actor) displayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return a.ID
	}
	return "Unknown"
}

func productPayload(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":        p.ID,
		"slug":      p.Slug,
		"name":      p.Name,
		"category":  p.Category,
		"stock":     p.Stock,
		"price":     p.Price,
		"is_active": p.IsActive,
		"available": p.Available(),
	}
}

func (s *catalogService) publish(action string, p *model.Product, actor Actor, message string, extra map[string]interface{}) {
	product := productPayload(p)
	for k, v := range extra {
		product[k] = v
	}
	payload := map[string]interface{}{
		"type":    eventType,
		"action":  action,
		"product": product,
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.displayName(),
			"email": actor.Email,
		},
		"message": fmt.Sprintf("%s %s '%s'", actor.displayName(), message, p.Name),
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("failed to encode catalog event", zap.String("action", action), zap.Error(err))
		return
	}
	s.publisher.Publish(msg)
}
