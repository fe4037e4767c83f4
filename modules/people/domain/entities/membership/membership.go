package membership

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
)

var (
	ErrNotFound  = errors.New("squad membership not found")
	ErrDuplicate = errors.New("member already assigned to squad")
)

// Membership assigns a team member to a squad with a working capacity.
// Capacity is a fraction of a full-time position, usually in (0, 1].
type Membership struct {
	id        uint
	memberID  uint
	squadID   uint
	capacity  float64
	role      string
	createdAt time.Time
	updatedAt time.Time
}

// New builds an unsaved membership edge. Capacity is normalized to two
// decimal places, matching the precision of the stored column.
func New(memberID, squadID uint, capacity float64, role string) Membership {
	return Membership{
		memberID: memberID,
		squadID:  squadID,
		capacity: rollup.Round2(capacity),
		role:     role,
	}
}

func Hydrate(id, memberID, squadID uint, capacity float64, role string, createdAt, updatedAt time.Time) Membership {
	return Membership{
		id:        id,
		memberID:  memberID,
		squadID:   squadID,
		capacity:  capacity,
		role:      role,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (m Membership) ID() uint             { return m.id }
func (m Membership) MemberID() uint       { return m.memberID }
func (m Membership) SquadID() uint        { return m.squadID }
func (m Membership) Capacity() float64    { return m.capacity }
func (m Membership) Role() string         { return m.role }
func (m Membership) CreatedAt() time.Time { return m.createdAt }
func (m Membership) UpdatedAt() time.Time { return m.updatedAt }

// UpdateFields is a partial update; nil members are left untouched.
type UpdateFields struct {
	Capacity *float64
	Role     *string
}

type Repository interface {
	GetByMember(ctx context.Context, memberID uint) ([]Membership, error)
	GetBySquad(ctx context.Context, squadID uint) ([]Membership, error)
	GetByMemberAndSquad(ctx context.Context, memberID, squadID uint) (Membership, error)
	Create(ctx context.Context, data Membership) (Membership, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (Membership, error)
	Delete(ctx context.Context, id uint) error
}
