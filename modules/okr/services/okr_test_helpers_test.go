package services

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
	"github.com/iota-uz/org-portal/pkg/constants"
)

func uintP(v uint) *uint { return &v }

// stubTx marks the context as already transactional so services skip
// opening a real one.
type stubTx struct{ pgx.Tx }

func txContext() context.Context {
	return context.WithValue(context.Background(), constants.TxKey, stubTx{})
}

func newObjective(id uint, areaID, tribeID, squadID *uint, cascades bool) objective.Objective {
	return objective.Hydrate(id, "objective", areaID, tribeID, squadID, cascades, time.Time{}, time.Time{})
}

type fakeObjectiveRepo struct {
	objectives []objective.Objective
	touched    []uint
	nextID     uint
}

func (f *fakeObjectiveRepo) GetAll(_ context.Context) ([]objective.Objective, error) {
	return f.objectives, nil
}

func (f *fakeObjectiveRepo) GetByID(_ context.Context, id uint) (objective.Objective, error) {
	for _, o := range f.objectives {
		if o.ID() == id {
			return o, nil
		}
	}
	return objective.Objective{}, objective.ErrNotFound
}

func (f *fakeObjectiveRepo) GetForArea(_ context.Context, areaID uint, cascadingOnly bool) ([]objective.Objective, error) {
	var out []objective.Objective
	for _, o := range f.objectives {
		if o.AreaID() != nil && *o.AreaID() == areaID && (!cascadingOnly || o.Cascades()) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeObjectiveRepo) GetForTribe(_ context.Context, tribeID uint, cascadingOnly bool) ([]objective.Objective, error) {
	var out []objective.Objective
	for _, o := range f.objectives {
		if o.TribeID() != nil && *o.TribeID() == tribeID && (!cascadingOnly || o.Cascades()) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeObjectiveRepo) GetForSquad(_ context.Context, squadID uint) ([]objective.Objective, error) {
	var out []objective.Objective
	for _, o := range f.objectives {
		if o.SquadID() != nil && *o.SquadID() == squadID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeObjectiveRepo) Create(_ context.Context, data objective.Objective) (objective.Objective, error) {
	f.nextID++
	created := objective.Hydrate(
		f.nextID, data.Content(),
		data.AreaID(), data.TribeID(), data.SquadID(),
		data.Cascades(), time.Now(), time.Now(),
	)
	f.objectives = append(f.objectives, created)
	return created, nil
}

func (f *fakeObjectiveRepo) Update(ctx context.Context, id uint, fields objective.UpdateFields) (objective.Objective, error) {
	existing, err := f.GetByID(ctx, id)
	if err != nil {
		return objective.Objective{}, err
	}
	content := existing.Content()
	if fields.Content != nil {
		content = *fields.Content
	}
	cascades := existing.Cascades()
	if fields.Cascades != nil {
		cascades = *fields.Cascades
	}
	updated := objective.Hydrate(
		id, content,
		existing.AreaID(), existing.TribeID(), existing.SquadID(),
		cascades, existing.CreatedAt(), time.Now(),
	)
	for i, o := range f.objectives {
		if o.ID() == id {
			f.objectives[i] = updated
		}
	}
	return updated, nil
}

func (f *fakeObjectiveRepo) Touch(_ context.Context, id uint) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeObjectiveRepo) Delete(_ context.Context, id uint) error {
	for i, o := range f.objectives {
		if o.ID() == id {
			f.objectives = append(f.objectives[:i], f.objectives[i+1:]...)
			return nil
		}
	}
	return objective.ErrNotFound
}

type fakeKeyResultRepo struct {
	results []keyresult.KeyResult
	nextID  uint
}

func (f *fakeKeyResultRepo) GetByObjective(_ context.Context, objectiveID uint) ([]keyresult.KeyResult, error) {
	var out []keyresult.KeyResult
	for _, kr := range f.results {
		if kr.ObjectiveID() == objectiveID {
			out = append(out, kr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out, nil
}

func (f *fakeKeyResultRepo) GetByID(_ context.Context, id uint) (keyresult.KeyResult, error) {
	for _, kr := range f.results {
		if kr.ID() == id {
			return kr, nil
		}
	}
	return keyresult.KeyResult{}, keyresult.ErrNotFound
}

func (f *fakeKeyResultRepo) Insert(ctx context.Context, data keyresult.KeyResult, position int) (keyresult.KeyResult, error) {
	siblings, _ := f.GetByObjective(ctx, data.ObjectiveID())
	if position == keyresult.PositionEnd || position > len(siblings) {
		position = len(siblings) + 1
	}
	f.nextID++
	created := keyresult.Hydrate(
		f.nextID, data.ObjectiveID(), data.Content(),
		data.CurrentValue(), data.TargetValue(), position,
		time.Now(), time.Now(),
	)
	f.results = append(f.results, created)
	return created, nil
}

func (f *fakeKeyResultRepo) Update(ctx context.Context, id uint, fields keyresult.UpdateFields) (keyresult.KeyResult, error) {
	existing, err := f.GetByID(ctx, id)
	if err != nil {
		return keyresult.KeyResult{}, err
	}
	content := existing.Content()
	if fields.Content != nil {
		content = *fields.Content
	}
	current := existing.CurrentValue()
	if fields.CurrentValue != nil {
		current = *fields.CurrentValue
	}
	target := existing.TargetValue()
	if fields.TargetValue != nil {
		target = *fields.TargetValue
	}
	position := existing.Position()
	if fields.Position != nil {
		position = *fields.Position
	}
	updated := keyresult.Hydrate(
		id, existing.ObjectiveID(), content,
		current, target, position,
		existing.CreatedAt(), time.Now(),
	)
	for i, kr := range f.results {
		if kr.ID() == id {
			f.results[i] = updated
		}
	}
	return updated, nil
}

func (f *fakeKeyResultRepo) Delete(_ context.Context, id uint) error {
	for i, kr := range f.results {
		if kr.ID() == id {
			f.results = append(f.results[:i], f.results[i+1:]...)
			return nil
		}
	}
	return keyresult.ErrNotFound
}

type fakeTribeRepo struct {
	tribes map[uint]tribe.Tribe
}

func (f *fakeTribeRepo) GetAll(_ context.Context) ([]tribe.Tribe, error) { return nil, nil }
func (f *fakeTribeRepo) GetByArea(_ context.Context, _ uint) ([]tribe.Tribe, error) {
	return nil, nil
}
func (f *fakeTribeRepo) GetByID(_ context.Context, id uint) (tribe.Tribe, error) {
	t, ok := f.tribes[id]
	if !ok {
		return tribe.Tribe{}, tribe.ErrNotFound
	}
	return t, nil
}
func (f *fakeTribeRepo) GetByName(_ context.Context, _ uint, _ string) (tribe.Tribe, error) {
	return tribe.Tribe{}, tribe.ErrNotFound
}
func (f *fakeTribeRepo) Create(_ context.Context, data tribe.Tribe) (tribe.Tribe, error) {
	return data, nil
}
func (f *fakeTribeRepo) Update(_ context.Context, _ uint, _ tribe.UpdateFields) (tribe.Tribe, error) {
	return tribe.Tribe{}, nil
}
func (f *fakeTribeRepo) Reparent(_ context.Context, _ uint, _ uint) (tribe.Tribe, error) {
	return tribe.Tribe{}, nil
}
func (f *fakeTribeRepo) Delete(_ context.Context, _ uint) error { return nil }

type fakeSquadRepo struct {
	squads map[uint]squad.Squad
}

func (f *fakeSquadRepo) GetAll(_ context.Context) ([]squad.Squad, error) { return nil, nil }
func (f *fakeSquadRepo) GetByTribe(_ context.Context, _ uint) ([]squad.Squad, error) {
	return nil, nil
}
func (f *fakeSquadRepo) GetByID(_ context.Context, id uint) (squad.Squad, error) {
	s, ok := f.squads[id]
	if !ok {
		return squad.Squad{}, squad.ErrNotFound
	}
	return s, nil
}
func (f *fakeSquadRepo) GetByName(_ context.Context, _ uint, _ string) (squad.Squad, error) {
	return squad.Squad{}, squad.ErrNotFound
}
func (f *fakeSquadRepo) Create(_ context.Context, data squad.Squad) (squad.Squad, error) {
	return data, nil
}
func (f *fakeSquadRepo) Update(_ context.Context, _ uint, _ squad.UpdateFields) (squad.Squad, error) {
	return squad.Squad{}, nil
}
func (f *fakeSquadRepo) Reparent(_ context.Context, _ uint, _ uint) (squad.Squad, error) {
	return squad.Squad{}, nil
}
func (f *fakeSquadRepo) Delete(_ context.Context, _ uint) error { return nil }

func testTribe(id, areaID uint, name string) tribe.Tribe {
	return tribe.Hydrate(id, areaID, name, "", label.Unset, rollup.Counters{}, time.Time{}, time.Time{})
}

func testSquad(id, tribeID uint, name string) squad.Squad {
	return squad.Hydrate(
		id, tribeID, name, "", "active", "",
		squad.StreamAligned, squad.Contact{}, rollup.Counters{},
		time.Time{}, time.Time{},
	)
}
