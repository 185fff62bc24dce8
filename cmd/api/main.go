package main

import (
	"time"

	"go.uber.org/fx"

	"github.com/Additional-Code/ordergraph/internal/app"
)

// main runs the HTTP and gRPC order services without the CLI wrapper.
func main() {
	fx.New(
		app.Module,
		fx.StartTimeout(30*time.Second),
		fx.StopTimeout(15*time.Second),
	).Run()
}
