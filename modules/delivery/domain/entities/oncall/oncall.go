package oncall

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound  = errors.New("on-call roster not found")
	ErrDuplicate = errors.New("squad already has an on-call roster")
)

// Roster names the primary and secondary on-call contacts for a squad.
// One roster per squad.
type Roster struct {
	id               uint
	squadID          uint
	primaryName      string
	primaryContact   string
	secondaryName    string
	secondaryContact string
	createdAt        time.Time
	updatedAt        time.Time
}

func New(squadID uint, primaryName, primaryContact, secondaryName, secondaryContact string) Roster {
	return Roster{
		squadID:          squadID,
		primaryName:      strings.TrimSpace(primaryName),
		primaryContact:   strings.TrimSpace(primaryContact),
		secondaryName:    strings.TrimSpace(secondaryName),
		secondaryContact: strings.TrimSpace(secondaryContact),
	}
}

func Hydrate(id, squadID uint, primaryName, primaryContact, secondaryName, secondaryContact string, createdAt, updatedAt time.Time) Roster {
	return Roster{
		id:               id,
		squadID:          squadID,
		primaryName:      primaryName,
		primaryContact:   primaryContact,
		secondaryName:    secondaryName,
		secondaryContact: secondaryContact,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (r Roster) ID() uint                 { return r.id }
func (r Roster) SquadID() uint            { return r.squadID }
func (r Roster) PrimaryName() string      { return r.primaryName }
func (r Roster) PrimaryContact() string   { return r.primaryContact }
func (r Roster) SecondaryName() string    { return r.secondaryName }
func (r Roster) SecondaryContact() string { return r.secondaryContact }
func (r Roster) CreatedAt() time.Time     { return r.createdAt }
func (r Roster) UpdatedAt() time.Time     { return r.updatedAt }

type Repository interface {
	GetBySquad(ctx context.Context, squadID uint) (Roster, error)
	// Upsert creates the squad's roster or replaces its contacts.
	Upsert(ctx context.Context, data Roster) (Roster, error)
	Delete(ctx context.Context, squadID uint) error
}
