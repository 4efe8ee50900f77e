package achievement

import (
	"github.com/naturetrail/naturetrail/internal/achievement/repository"
	"github.com/naturetrail/naturetrail/internal/achievement/service"
	"github.com/naturetrail/naturetrail/internal/activity"
	"go.uber.org/fx"
)

var Module = fx.Module("achievement.service",
	fx.Provide(activity.New),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
