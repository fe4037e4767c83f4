package override

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Kind names the hierarchy level an override applies to.
type Kind string

const (
	KindArea  Kind = "area"
	KindTribe Kind = "tribe"
	KindSquad Kind = "squad"
)

var (
	ErrUnknownKind    = errors.New("unknown override entity kind")
	ErrEntityNotFound = errors.New("override target entity not found")
)

func ParseKind(v string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "area":
		return KindArea, nil
	case "tribe":
		return KindTribe, nil
	case "squad":
		return KindSquad, nil
	default:
		return "", ErrUnknownKind
	}
}

// Override is one record of the append-only description edit log.
type Override struct {
	id          uint
	kind        Kind
	entityID    uint
	description string
	editedBy    string
	createdAt   time.Time
}

func New(kind Kind, entityID uint, description, editedBy string) Override {
	return Override{
		kind:        kind,
		entityID:    entityID,
		description: description,
		editedBy:    editedBy,
	}
}

func Hydrate(id uint, kind Kind, entityID uint, description, editedBy string, createdAt time.Time) Override {
	return Override{
		id:          id,
		kind:        kind,
		entityID:    entityID,
		description: description,
		editedBy:    editedBy,
		createdAt:   createdAt,
	}
}

func (o Override) ID() uint             { return o.id }
func (o Override) Kind() Kind           { return o.kind }
func (o Override) EntityID() uint       { return o.entityID }
func (o Override) Description() string  { return o.description }
func (o Override) EditedBy() string     { return o.editedBy }
func (o Override) CreatedAt() time.Time { return o.createdAt }

type Repository interface {
	// Append adds a record; prior records are never modified or deleted.
	Append(ctx context.Context, data Override) (Override, error)
	// Current returns the newest override for (kind, id), or nil if none.
	Current(ctx context.Context, kind Kind, entityID uint) (*Override, error)
	// History returns all records for (kind, id), newest first.
	History(ctx context.Context, kind Kind, entityID uint) ([]Override, error)
}
