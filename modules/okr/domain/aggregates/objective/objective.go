package objective

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("objective not found")
	ErrNoScope  = errors.New("objective must reference an area, tribe or squad")
)

// Objective is an OKR objective attached to one or more levels of the
// hierarchy. The cascade flag makes it visible to descendant scopes when
// they are resolved; it never creates edges of its own.
type Objective struct {
	id        uint
	content   string
	areaID    *uint
	tribeID   *uint
	squadID   *uint
	cascades  bool
	createdAt time.Time
	updatedAt time.Time
}

func New(content string, areaID, tribeID, squadID *uint, cascades bool) (Objective, error) {
	if areaID == nil && tribeID == nil && squadID == nil {
		return Objective{}, ErrNoScope
	}
	return Objective{
		content:  strings.TrimSpace(content),
		areaID:   areaID,
		tribeID:  tribeID,
		squadID:  squadID,
		cascades: cascades,
	}, nil
}

func Hydrate(
	id uint,
	content string,
	areaID, tribeID, squadID *uint,
	cascades bool,
	createdAt, updatedAt time.Time,
) Objective {
	return Objective{
		id:        id,
		content:   content,
		areaID:    areaID,
		tribeID:   tribeID,
		squadID:   squadID,
		cascades:  cascades,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (o Objective) ID() uint             { return o.id }
func (o Objective) Content() string      { return o.content }
func (o Objective) AreaID() *uint        { return o.areaID }
func (o Objective) TribeID() *uint       { return o.tribeID }
func (o Objective) SquadID() *uint       { return o.squadID }
func (o Objective) Cascades() bool       { return o.cascades }
func (o Objective) CreatedAt() time.Time { return o.createdAt }
func (o Objective) UpdatedAt() time.Time { return o.updatedAt }

type UpdateFields struct {
	Content  *string
	Cascades *bool
}

type Repository interface {
	GetAll(ctx context.Context) ([]Objective, error)
	GetByID(ctx context.Context, id uint) (Objective, error)
	GetForArea(ctx context.Context, areaID uint, cascadingOnly bool) ([]Objective, error)
	GetForTribe(ctx context.Context, tribeID uint, cascadingOnly bool) ([]Objective, error)
	GetForSquad(ctx context.Context, squadID uint) ([]Objective, error)
	Create(ctx context.Context, data Objective) (Objective, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (Objective, error)
	// Touch bumps updated_at; key-result mutations count as edits to the
	// parent objective.
	Touch(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}
