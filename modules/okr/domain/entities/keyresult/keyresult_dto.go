package keyresult

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type CreateDTO struct {
	ObjectiveID  uint    `json:"objective_id" validate:"required"`
	Content      string  `json:"content" validate:"required,max=4000"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Position     int     `json:"position" validate:"min=0"`
}

type UpdateDTO struct {
	Content      *string  `json:"content" validate:"omitempty,min=1,max=4000"`
	CurrentValue *float64 `json:"current_value"`
	TargetValue  *float64 `json:"target_value"`
	Position     *int     `json:"position" validate:"omitempty,min=1"`
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
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity() KeyResult {
	return New(d.ObjectiveID, d.Content, d.CurrentValue, d.TargetValue)
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
	f := UpdateFields{
		CurrentValue: d.CurrentValue,
		TargetValue:  d.TargetValue,
		Position:     d.Position,
	}
	if d.Content != nil {
		trimmed := strings.TrimSpace(*d.Content)
		f.Content = &trimmed
	}
	return f
}
