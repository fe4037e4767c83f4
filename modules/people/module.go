package people

import (
	"embed"

	"github.com/iota-uz/org-portal/modules/people/handlers"
	"github.com/iota-uz/org-portal/modules/people/infrastructure/persistence"
	"github.com/iota-uz/org-portal/modules/people/presentation/controllers"
	"github.com/iota-uz/org-portal/modules/people/services"
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

	rollups := services.NewRollupService(persistence.NewRollupRepository())
	app.RegisterServices(
		rollups,
		services.NewMemberService(
			persistence.NewMemberRepository(),
			persistence.NewMembershipRepository(),
			rollups,
			app.EventPublisher(),
		),
	)

	app.RegisterControllers(
		controllers.NewMemberController(app),
		controllers.NewRollupController(app),
	)

	handlers.RegisterOrgEventHandlers(app)

	return nil
}

func (m *Module) Name() string {
	return "people"
}
