package application

import (
	"context"
	"io/fs"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/org-portal/pkg/eventbus"
)

// Controller mounts a set of routes on the root router. Key must be unique
// per controller; re-registering a key replaces the controller.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module is a self-contained feature slice: schema, services, controllers.
type Module interface {
	Name() string
	Register(app Application) error
}

type SeedFunc func(ctx context.Context, app Application) error

type Seeder interface {
	Register(seedFuncs ...SeedFunc)
	Seed(ctx context.Context, app Application) error
}

type MigrationManager interface {
	RegisterSchema(name string, fsys fs.FS)
	Apply(ctx context.Context) error
	Reset(ctx context.Context) error
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Migrations() MigrationManager

	Controllers() []Controller
	RegisterControllers(controllers ...Controller)

	Middleware() []mux.MiddlewareFunc
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
}
