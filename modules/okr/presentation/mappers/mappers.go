package mappers

import (
	"time"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/modules/okr/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/okr/services"
)

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ObjectiveToViewModel(o objective.Objective, krs []keyresult.KeyResult) viewmodels.Objective {
	out := viewmodels.Objective{
		ID:         o.ID(),
		Content:    o.Content(),
		AreaID:     o.AreaID(),
		TribeID:    o.TribeID(),
		SquadID:    o.SquadID(),
		Cascade:    o.Cascades(),
		KeyResults: make([]viewmodels.KeyResult, 0, len(krs)),
		CreatedAt:  ts(o.CreatedAt()),
		UpdatedAt:  ts(o.UpdatedAt()),
	}
	for _, kr := range krs {
		out.KeyResults = append(out.KeyResults, KeyResultToViewModel(kr))
	}
	return out
}

func ResolvedToViewModel(r services.ResolvedObjective) viewmodels.Objective {
	return ObjectiveToViewModel(r.Objective, r.KeyResults)
}

func KeyResultToViewModel(kr keyresult.KeyResult) viewmodels.KeyResult {
	return viewmodels.KeyResult{
		ID:           kr.ID(),
		ObjectiveID:  kr.ObjectiveID(),
		Content:      kr.Content(),
		CurrentValue: kr.CurrentValue(),
		TargetValue:  kr.TargetValue(),
		Position:     kr.Position(),
		CreatedAt:    ts(kr.CreatedAt()),
		UpdatedAt:    ts(kr.UpdatedAt()),
	}
}
