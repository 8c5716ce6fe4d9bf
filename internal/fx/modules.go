package fx

import (
	"mcsr-tracker/internal/api"
	"mcsr-tracker/internal/config"
	"mcsr-tracker/internal/logger"
	"mcsr-tracker/internal/server"
	"mcsr-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(logger.New),
	// api client
	fx.Provide(
		api.NewRankedClient,
		func(c *api.RankedClient) service.Fetcher { return c },
	),
	// svc
	fx.Provide(service.NewMatchResolver),
	fx.Provide(fx.Annotate(service.NewLookupService, fx.As(new(server.Lookup)))),
	// server
	fx.Provide(server.NewHandler),
	fx.Invoke(config.LogSummary),
)
