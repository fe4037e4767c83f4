package mappers

import (
	"time"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/org/domain/entities/override"
	"github.com/iota-uz/org-portal/modules/org/presentation/viewmodels"
)

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func AreaToViewModel(a area.Area) viewmodels.Area {
	return viewmodels.Area{
		ID:          a.ID(),
		Name:        a.Name(),
		Description: a.Description(),
		Label:       string(a.Label()),
		Counters:    a.Counters(),
		CreatedAt:   ts(a.CreatedAt()),
		UpdatedAt:   ts(a.UpdatedAt()),
	}
}

func TribeToViewModel(t tribe.Tribe) viewmodels.Tribe {
	return viewmodels.Tribe{
		ID:          t.ID(),
		AreaID:      t.AreaID(),
		Name:        t.Name(),
		Description: t.Description(),
		Label:       string(t.Label()),
		Counters:    t.Counters(),
		CreatedAt:   ts(t.CreatedAt()),
		UpdatedAt:   ts(t.UpdatedAt()),
	}
}

func SquadToViewModel(s squad.Squad) viewmodels.Squad {
	c := s.Contact()
	return viewmodels.Squad{
		ID:          s.ID(),
		TribeID:     s.TribeID(),
		Name:        s.Name(),
		Description: s.Description(),
		Status:      s.Status(),
		Timezone:    s.Timezone(),
		TeamType:    string(s.TeamType()),
		Contact: viewmodels.SquadContact{
			TeamsChannel: c.TeamsChannel,
			SlackChannel: c.SlackChannel,
			Email:        c.Email,
			DocsURL:      c.DocsURL,
			IssueTracker: c.IssueTracker,
		},
		Counters:  s.Counters(),
		CreatedAt: ts(s.CreatedAt()),
		UpdatedAt: ts(s.UpdatedAt()),
	}
}

func OverrideToViewModel(o override.Override) viewmodels.Override {
	return viewmodels.Override{
		ID:          o.ID(),
		EntityKind:  string(o.Kind()),
		EntityID:    o.EntityID(),
		Description: o.Description(),
		EditedBy:    o.EditedBy(),
		CreatedAt:   ts(o.CreatedAt()),
	}
}
