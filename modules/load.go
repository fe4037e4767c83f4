package modules

import (
	"github.com/iota-uz/org-portal/modules/delivery"
	"github.com/iota-uz/org-portal/modules/ingest"
	"github.com/iota-uz/org-portal/modules/okr"
	"github.com/iota-uz/org-portal/modules/org"
	"github.com/iota-uz/org-portal/modules/people"
	"github.com/iota-uz/org-portal/pkg/application"
)

// BuiltInModules lists every module in registration order. Order matters
// for migrations: org owns the hierarchy tables the other schemas
// reference.
var BuiltInModules = []application.Module{
	org.NewModule(),
	people.NewModule(),
	delivery.NewModule(),
	okr.NewModule(),
	ingest.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
