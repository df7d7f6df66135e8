package dispatcher

import "go.uber.org/fx"

// Module provides the dispatcher dependencies
var Module = fx.Module("dispatcher",
	fx.Provide(
		NewDispatcher,
	),
)
