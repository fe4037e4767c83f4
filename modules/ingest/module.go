package ingest

import (
	deliverypersistence "github.com/iota-uz/org-portal/modules/delivery/infrastructure/persistence"
	"github.com/iota-uz/org-portal/modules/ingest/presentation/controllers"
	"github.com/iota-uz/org-portal/modules/ingest/services"
	orgpersistence "github.com/iota-uz/org-portal/modules/org/infrastructure/persistence"
	peoplepersistence "github.com/iota-uz/org-portal/modules/people/infrastructure/persistence"
	peopleservices "github.com/iota-uz/org-portal/modules/people/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register wires the ingest pipeline against the repositories of the
// domain modules. Ingest owns no tables of its own, so it registers no
// migrations.
func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	areas := orgpersistence.NewAreaRepository()
	tribes := orgpersistence.NewTribeRepository()
	squads := orgpersistence.NewSquadRepository()

	people := services.NewPeopleReconciler(
		areas, tribes, squads,
		peoplepersistence.NewMemberRepository(),
		peoplepersistence.NewMembershipRepository(),
		conf.Ingest.PlaceholderDomain,
	)
	catalog := services.NewServicesReconciler(squads, deliverypersistence.NewServiceRepository())
	dependencies := services.NewDependenciesReconciler(squads, deliverypersistence.NewDependencyRepository())
	rollups := peopleservices.NewRollupService(peoplepersistence.NewRollupRepository())

	app.RegisterServices(
		services.NewIngestService(people, catalog, dependencies, rollups),
	)

	app.RegisterControllers(
		controllers.NewUploadController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "ingest"
}
