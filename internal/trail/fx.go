package trail

import (
	"github.com/naturetrail/naturetrail/internal/trail/repository"
	"github.com/naturetrail/naturetrail/internal/trail/service"
	"go.uber.org/fx"
)

var Module = fx.Module("trail.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
