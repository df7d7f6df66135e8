package parser

import (
	"github.com/carelink/openapi-bridge/internal/config"
	"go.uber.org/fx"
)

func newConfiguredAdjuster(cfg *config.Config) (*Adjuster, error) {
	adjuster := NewAdjuster()
	if err := adjuster.Load(cfg.AdjustmentsFile); err != nil {
		return nil, err
	}
	return adjuster, nil
}

// Module provides the parser dependencies
var Module = fx.Module("parser",
	fx.Provide(
		newConfiguredAdjuster,
		fx.Annotate(
			NewToolBuilder,
			fx.As(new(Builder)),
		),
	),
)
