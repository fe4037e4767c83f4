package tribe

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type CreateDTO struct {
	AreaID      uint   `json:"area_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	Label       string `json:"label"`
}

type UpdateDTO struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Label       *string `json:"label"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	if _, err := label.Parse(d.Label); err != nil {
		errs["Label"] = "unknown label"
	}
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity() (Tribe, error) {
	lbl, err := label.Parse(d.Label)
	if err != nil {
		return Tribe{}, err
	}
	return New(d.AreaID, d.Name, d.Description, lbl), nil
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	if d.Label != nil {
		if _, err := label.Parse(*d.Label); err != nil {
			errs["Label"] = "unknown label"
		}
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Fields() (UpdateFields, error) {
	f := UpdateFields{Name: d.Name, Description: d.Description}
	if d.Label != nil {
		lbl, err := label.Parse(*d.Label)
		if err != nil {
			return UpdateFields{}, err
		}
		f.Label = &lbl
	}
	return f, nil
}
