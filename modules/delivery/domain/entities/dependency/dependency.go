package dependency

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// InteractionMode follows the Team Topologies taxonomy of how two squads
// collaborate on a dependency.
type InteractionMode string

const (
	XAsAService   InteractionMode = "x_as_a_service"
	Collaboration InteractionMode = "collaboration"
	Facilitating  InteractionMode = "facilitating"
)

var (
	ErrUnknownMode    = errors.New("unknown interaction mode")
	ErrSelfDependency = errors.New("squad cannot depend on itself")
	ErrNotFound       = errors.New("dependency not found")
)

func ParseMode(v string) (InteractionMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "x_as_a_service", "":
		return XAsAService, nil
	case "collaboration":
		return Collaboration, nil
	case "facilitating":
		return Facilitating, nil
	default:
		return "", ErrUnknownMode
	}
}

type Dependency struct {
	id           uint
	dependentID  uint
	dependencyID uint
	name         string
	mode         InteractionMode
	frequency    string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(dependentID, dependencyID uint, name string, mode InteractionMode, frequency string) (Dependency, error) {
	if dependentID == dependencyID {
		return Dependency{}, ErrSelfDependency
	}
	return Dependency{
		dependentID:  dependentID,
		dependencyID: dependencyID,
		name:         strings.TrimSpace(name),
		mode:         mode,
		frequency:    strings.TrimSpace(frequency),
	}, nil
}

func Hydrate(id, dependentID, dependencyID uint, name string, mode InteractionMode, frequency string, createdAt, updatedAt time.Time) Dependency {
	return Dependency{
		id:           id,
		dependentID:  dependentID,
		dependencyID: dependencyID,
		name:         name,
		mode:         mode,
		frequency:    frequency,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (d Dependency) ID() uint              { return d.id }
func (d Dependency) DependentID() uint     { return d.dependentID }
func (d Dependency) DependencyID() uint    { return d.dependencyID }
func (d Dependency) Name() string          { return d.name }
func (d Dependency) Mode() InteractionMode { return d.mode }
func (d Dependency) Frequency() string     { return d.frequency }
func (d Dependency) CreatedAt() time.Time  { return d.createdAt }
func (d Dependency) UpdatedAt() time.Time  { return d.updatedAt }

type Repository interface {
	GetAll(ctx context.Context) ([]Dependency, error)
	// GetBySquad returns edges where the squad appears on either side.
	GetBySquad(ctx context.Context, squadID uint) ([]Dependency, error)
	GetByID(ctx context.Context, id uint) (Dependency, error)
	// Upsert writes the edge keyed by (dependent, dependency), updating
	// name, mode and frequency when the pair already exists.
	Upsert(ctx context.Context, data Dependency) (Dependency, error)
	Delete(ctx context.Context, id uint) error
}
