package delivery

import (
	"embed"

	"github.com/iota-uz/org-portal/modules/delivery/infrastructure/persistence"
	"github.com/iota-uz/org-portal/modules/delivery/presentation/controllers"
	"github.com/iota-uz/org-portal/modules/delivery/services"
	"github.com/iota-uz/org-portal/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(m.Name(), migrationFiles)

	app.RegisterServices(
		services.NewServiceService(persistence.NewServiceRepository(), app.EventPublisher()),
		services.NewDependencyService(persistence.NewDependencyRepository(), app.EventPublisher()),
		services.NewOnCallService(persistence.NewOnCallRepository(), app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewServiceController(app),
		controllers.NewDependencyController(app),
		controllers.NewOnCallController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "delivery"
}
