package objective

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type CreateDTO struct {
	Content string `json:"content" validate:"required,max=4000"`
	AreaID  *uint  `json:"area_id"`
	TribeID *uint  `json:"tribe_id"`
	SquadID *uint  `json:"squad_id"`
	Cascade bool   `json:"cascade"`
}

type UpdateDTO struct {
	Content *string `json:"content" validate:"omitempty,min=1,max=4000"`
	Cascade *bool   `json:"cascade"`
}

func (d *CreateDTO) Normalize() {
	d.Content = strings.TrimSpace(d.Content)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	if d.AreaID == nil && d.TribeID == nil && d.SquadID == nil {
		errs["Scope"] = "at least one of area_id, tribe_id, squad_id is required"
	}
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity() (Objective, error) {
	return New(d.Content, d.AreaID, d.TribeID, d.SquadID, d.Cascade)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Fields() UpdateFields {
	f := UpdateFields{Cascades: d.Cascade}
	if d.Content != nil {
		trimmed := strings.TrimSpace(*d.Content)
		f.Content = &trimmed
	}
	return f
}
