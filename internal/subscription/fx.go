package subscription

import (
	"github.com/naturetrail/naturetrail/internal/subscription/repository"
	"github.com/naturetrail/naturetrail/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
