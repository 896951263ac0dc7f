package refreshrun

import (
	"github.com/geoledger/countrysync/internal/refreshrun/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("refreshrun",
	fx.Provide(repository.Provide),
)
