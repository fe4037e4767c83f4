package okr

import (
	"embed"

	"github.com/iota-uz/org-portal/modules/okr/infrastructure/persistence"
	"github.com/iota-uz/org-portal/modules/okr/presentation/controllers"
	"github.com/iota-uz/org-portal/modules/okr/services"
	orgpersistence "github.com/iota-uz/org-portal/modules/org/infrastructure/persistence"
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

	objectives := persistence.NewObjectiveRepository()
	keyResults := persistence.NewKeyResultRepository()

	app.RegisterServices(
		services.NewObjectiveService(objectives, app.EventPublisher()),
		services.NewKeyResultService(keyResults, objectives, app.EventPublisher()),
		services.NewCascadeService(
			objectives,
			keyResults,
			orgpersistence.NewTribeRepository(),
			orgpersistence.NewSquadRepository(),
		),
	)

	app.RegisterControllers(
		controllers.NewObjectiveController(app),
		controllers.NewKeyResultController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "okr"
}
