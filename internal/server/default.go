package server

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/configuration"
	"github.com/iota-uz/org-portal/pkg/constants"
	"github.com/iota-uz/org-portal/pkg/metrics"
	"github.com/iota-uz/org-portal/pkg/middleware"
	"github.com/iota-uz/org-portal/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the portal server: global middleware (logging, context
// wiring, CORS, bearer auth), every module's controllers and the
// operational endpoints.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	app.RegisterMiddleware(
		middleware.WithLogger(options.Logger),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.Cors(conf.AllowedOriginList()...),
		middleware.Authenticate(),
	)

	app.RegisterControllers(NewHealthController(options.Pool))
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	return server.NewHTTPServer(app, notFound(), methodNotAllowed()), nil
}
