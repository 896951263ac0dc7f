package refresh

import (
	"github.com/geoledger/countrysync/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("refresh",
	fx.Provide(
		provideSources,
		NewEstimator,
		New,
	),
)

func provideSources(cfg config.Config) Sources {
	return NewFetcher(cfg)
}
