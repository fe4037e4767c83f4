package area

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
)

var (
	ErrNotFound  = errors.New("area not found")
	ErrNameTaken = errors.New("area name already exists")
)

// UpdateFields is a partial update; nil members are left untouched.
type UpdateFields struct {
	Name        *string
	Description *string
	Label       *label.Label
}

type Repository interface {
	GetAll(ctx context.Context) ([]Area, error)
	GetByID(ctx context.Context, id uint) (Area, error)
	GetByName(ctx context.Context, name string) (Area, error)
	Create(ctx context.Context, data Area) (Area, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (Area, error)
	Delete(ctx context.Context, id uint) error
}
