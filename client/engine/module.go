package engine

import (
	"go.uber.org/fx"
)

// Module provides the fx module for the client engine.
var Module = fx.Module("engine",
	fx.Provide(
		NewMonitorClient,
		NewApp,
	),
)
