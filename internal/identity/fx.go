package identity

import (
	"github.com/naturetrail/naturetrail/internal/identity/repository"
	"github.com/naturetrail/naturetrail/internal/identity/service"
	"github.com/naturetrail/naturetrail/internal/identity/session"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
	fx.Provide(session.NewStore),
)
