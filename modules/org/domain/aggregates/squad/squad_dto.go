package squad

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type CreateDTO struct {
	TribeID     uint   `json:"tribe_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	TeamType    string `json:"team_type"`
}

type UpdateDTO struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=4000"`
	Status      *string  `json:"status" validate:"omitempty,max=64"`
	Timezone    *string  `json:"timezone" validate:"omitempty,max=64"`
	TeamType    *string  `json:"team_type"`
	Contact     *Contact `json:"contact_info"`
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
	if _, err := ParseTeamType(d.TeamType); err != nil {
		errs["TeamType"] = "unknown team type"
	}
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity() (Squad, error) {
	tt, err := ParseTeamType(d.TeamType)
	if err != nil {
		return Squad{}, err
	}
	return New(d.TribeID, d.Name, d.Description, tt), nil
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	if d.TeamType != nil {
		if _, err := ParseTeamType(*d.TeamType); err != nil {
			errs["TeamType"] = "unknown team type"
		}
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Fields() (UpdateFields, error) {
	f := UpdateFields{
		Name:        d.Name,
		Description: d.Description,
		Status:      d.Status,
		Timezone:    d.Timezone,
		Contact:     d.Contact,
	}
	if d.TeamType != nil {
		tt, err := ParseTeamType(*d.TeamType)
		if err != nil {
			return UpdateFields{}, err
		}
		f.TeamType = &tt
	}
	return f, nil
}
