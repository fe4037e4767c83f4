package org

import (
	"embed"

	"github.com/iota-uz/org-portal/modules/org/infrastructure/persistence"
	"github.com/iota-uz/org-portal/modules/org/presentation/controllers"
	"github.com/iota-uz/org-portal/modules/org/services"
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
		services.NewAreaService(persistence.NewAreaRepository(), app.EventPublisher()),
		services.NewTribeService(persistence.NewTribeRepository(), app.EventPublisher()),
		services.NewSquadService(persistence.NewSquadRepository(), app.EventPublisher()),
		services.NewDescriptionService(persistence.NewOverrideRepository(), app.EventPublisher()),
		services.NewSearchService(persistence.NewSearchRepository()),
	)

	app.RegisterControllers(
		controllers.NewAreaController(app),
		controllers.NewTribeController(app),
		controllers.NewSquadController(app),
		controllers.NewDescriptionController(app),
		controllers.NewSearchController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "org"
}
