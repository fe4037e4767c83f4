package tribe

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
)

var (
	ErrNotFound  = errors.New("tribe not found")
	ErrNameTaken = errors.New("tribe name already exists within its area")
)

type Tribe struct {
	id          uint
	areaID      uint
	name        string
	description string
	label       label.Label
	counters    rollup.Counters
	createdAt   time.Time
	updatedAt   time.Time
}

func New(areaID uint, name, description string, classification label.Label) Tribe {
	return Tribe{
		areaID:      areaID,
		name:        strings.TrimSpace(name),
		description: description,
		label:       classification,
	}
}

func Hydrate(
	id uint,
	areaID uint,
	name string,
	description string,
	classification label.Label,
	counters rollup.Counters,
	createdAt time.Time,
	updatedAt time.Time,
) Tribe {
	return Tribe{
		id:          id,
		areaID:      areaID,
		name:        name,
		description: description,
		label:       classification,
		counters:    counters,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (t Tribe) ID() uint                  { return t.id }
func (t Tribe) AreaID() uint              { return t.areaID }
func (t Tribe) Name() string              { return t.name }
func (t Tribe) Description() string       { return t.description }
func (t Tribe) Label() label.Label        { return t.label }
func (t Tribe) Counters() rollup.Counters { return t.counters }
func (t Tribe) CreatedAt() time.Time      { return t.createdAt }
func (t Tribe) UpdatedAt() time.Time      { return t.updatedAt }

// UpdateFields is a partial update; nil members are left untouched.
// The parent pointer only changes through Reparent.
type UpdateFields struct {
	Name        *string
	Description *string
	Label       *label.Label
}

type Repository interface {
	GetAll(ctx context.Context) ([]Tribe, error)
	GetByArea(ctx context.Context, areaID uint) ([]Tribe, error)
	GetByID(ctx context.Context, id uint) (Tribe, error)
	GetByName(ctx context.Context, areaID uint, name string) (Tribe, error)
	Create(ctx context.Context, data Tribe) (Tribe, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (Tribe, error)
	Reparent(ctx context.Context, id uint, newAreaID uint) (Tribe, error)
	Delete(ctx context.Context, id uint) error
}
