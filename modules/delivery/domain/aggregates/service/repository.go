package service

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound  = errors.New("service not found")
	ErrNameTaken = errors.New("service name already exists within its squad")
)

// UpdateFields is a partial update; nil members are left untouched.
type UpdateFields struct {
	Name        *string
	Description *string
	Status      *Status
	Uptime      *float64
	Version     *string
	ServiceType *Type
	URL         *string
	DocsURL     *string
}

type Repository interface {
	GetAll(ctx context.Context) ([]Service, error)
	GetBySquad(ctx context.Context, squadID uint) ([]Service, error)
	GetByID(ctx context.Context, id uint) (Service, error)
	GetByName(ctx context.Context, squadID uint, name string) (Service, error)
	Create(ctx context.Context, data Service) (Service, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (Service, error)
	Delete(ctx context.Context, id uint) error
}
