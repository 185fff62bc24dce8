package order

import (
	"time"

	"github.com/Additional-Code/ordergraph/internal/dto"
	"github.com/Additional-Code/ordergraph/internal/model"
)

// Message types carried in the "type" header and field of order messages.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"

	// CommandOrderPatch asks a worker to reconcile an incoming snapshot.
	CommandOrderPatch = "order.patch"
)

// Event is published after an order graph changes.
type Event struct {
	Type       string              `json:"type"`
	OrderID    string              `json:"order_id"`
	Number     string              `json:"number,omitempty"`
	Changes    []dto.ChangeSummary `json:"changes,omitempty"`
	Dangling   int                 `json:"dangling,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// PatchCommand is the payload of an order.patch message.
type PatchCommand struct {
	Type    string               `json:"type"`
	OrderID string               `json:"order_id"`
	Order   *model.CustomerOrder `json:"order"`
}
