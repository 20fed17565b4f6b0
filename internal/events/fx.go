package events

import "go.uber.org/fx"

// Module provides the catalog change hub.
var Module = fx.Module("events",
	fx.Provide(NewHub),
)
