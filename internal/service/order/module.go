package order

import "go.uber.org/fx"

// Module provides the order payload validator and the order service.
var Module = fx.Options(
	fx.Provide(NewValidator),
	fx.Provide(NewService),
)
