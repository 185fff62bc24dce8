package reconcile

import (
	"context"
	"errors"

	"github.com/Additional-Code/ordergraph/internal/entity"
)

// ErrNotFound is returned by a Store when the order does not exist.
var ErrNotFound = errors.New("order not found")

// ErrConflict is returned by a Store when a write would collide with rows it
// does not own: an order ID already taken, or a child ID belonging to
// another order.
var ErrConflict = errors.New("order graph conflict")

// Store loads and persists whole order graphs. Graphs returned by LoadGraph
// have every collection marked loaded and shipment items linked.
type Store interface {
	LoadGraph(ctx context.Context, id string) (*entity.Order, error)
	CreateGraph(ctx context.Context, order *entity.Order) error
	SaveGraph(ctx context.Context, order *entity.Order) error
	DeleteGraph(ctx context.Context, id string) error
	// InTx runs fn inside one transaction, handing it a Store bound to it.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
