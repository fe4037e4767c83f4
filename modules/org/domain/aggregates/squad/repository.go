package squad

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound  = errors.New("squad not found")
	ErrNameTaken = errors.New("squad name already exists within its tribe")
)

// UpdateFields is a partial update; nil members are left untouched.
// The parent pointer only changes through Reparent.
type UpdateFields struct {
	Name        *string
	Description *string
	Status      *string
	Timezone    *string
	TeamType    *TeamType
	Contact     *Contact
}

type Repository interface {
	GetAll(ctx context.Context) ([]Squad, error)
	GetByTribe(ctx context.Context, tribeID uint) ([]Squad, error)
	GetByID(ctx context.Context, id uint) (Squad, error)
	GetByName(ctx context.Context, tribeID uint, name string) (Squad, error)
	Create(ctx context.Context, data Squad) (Squad, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (Squad, error)
	Reparent(ctx context.Context, id uint, newTribeID uint) (Squad, error)
	Delete(ctx context.Context, id uint) error
}
