package area

import (
	"strings"
	"time"

	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
)

type Area struct {
	id          uint
	name        string
	description string
	label       label.Label
	counters    rollup.Counters
	createdAt   time.Time
	updatedAt   time.Time
}

func New(name, description string, classification label.Label) Area {
	return Area{
		name:        strings.TrimSpace(name),
		description: description,
		label:       classification,
	}
}

func Hydrate(
	id uint,
	name string,
	description string,
	classification label.Label,
	counters rollup.Counters,
	createdAt time.Time,
	updatedAt time.Time,
) Area {
	return Area{
		id:          id,
		name:        name,
		description: description,
		label:       classification,
		counters:    counters,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (a Area) ID() uint                  { return a.id }
func (a Area) Name() string              { return a.name }
func (a Area) Description() string       { return a.description }
func (a Area) Label() label.Label        { return a.label }
func (a Area) Counters() rollup.Counters { return a.counters }
func (a Area) CreatedAt() time.Time      { return a.createdAt }
func (a Area) UpdatedAt() time.Time      { return a.updatedAt }
func (a Area) IsZero() bool              { return a.id == 0 && a.name == "" }
