package member

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound   = errors.New("team member not found")
	ErrEmailTaken = errors.New("team member email already exists")
)

// UpdateFields is a partial update; nil members are left untouched.
// SupervisorID distinguishes "not changed" (nil) from "cleared"
// (pointer to nil value) via the Set flag.
type UpdateFields struct {
	Name           *string
	Email          *string
	Role           *string
	Function       *string
	Geography      *string
	Location       *string
	ImageURL       *string
	Vendor         *string
	EmploymentType *EmploymentType
	IsExternal     *bool
	IsVacancy      *bool
	Supervisor     *SupervisorChange
}

type SupervisorChange struct {
	ID *uint
}

type Repository interface {
	GetAll(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id uint) (Member, error)
	GetByEmail(ctx context.Context, email string) (Member, error)
	GetBySquad(ctx context.Context, squadID uint) ([]Member, error)
	Create(ctx context.Context, data Member) (Member, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (Member, error)
	Delete(ctx context.Context, id uint) error
}
