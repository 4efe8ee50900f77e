package sighting

import (
	"github.com/naturetrail/naturetrail/internal/sighting/repository"
	"github.com/naturetrail/naturetrail/internal/sighting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sighting.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
