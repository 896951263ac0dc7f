package country

import (
	"github.com/geoledger/countrysync/internal/country/repository"
	"github.com/geoledger/countrysync/internal/country/service"
	"go.uber.org/fx"
)

var Module = fx.Module("country.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
