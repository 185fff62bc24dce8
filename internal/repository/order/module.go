package order

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/ordergraph/internal/reconcile"
)

// Module provides the order graph repository as the reconcile.Store.
var Module = fx.Provide(
	fx.Annotate(NewRepository, fx.As(new(reconcile.Store))),
)
