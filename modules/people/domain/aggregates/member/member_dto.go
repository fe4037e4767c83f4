package member

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type CreateDTO struct {
	Name           string `json:"name" validate:"required,max=255"`
	Email          string `json:"email" validate:"omitempty,email,max=255"`
	Role           string `json:"role" validate:"max=255"`
	Function       string `json:"function" validate:"max=255"`
	Geography      string `json:"geography" validate:"max=255"`
	Location       string `json:"location" validate:"max=255"`
	ImageURL       string `json:"image_url" validate:"omitempty,url,max=2048"`
	Vendor         string `json:"vendor" validate:"max=255"`
	EmploymentType string `json:"employment_type" validate:"required"`
	IsExternal     bool   `json:"is_external"`
	IsVacancy      bool   `json:"is_vacancy"`
	SupervisorID   *uint  `json:"supervisor_id"`
}

type UpdateDTO struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	Role            *string `json:"role" validate:"omitempty,max=255"`
	Function        *string `json:"function" validate:"omitempty,max=255"`
	Geography       *string `json:"geography" validate:"omitempty,max=255"`
	Location        *string `json:"location" validate:"omitempty,max=255"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url,max=2048"`
	Vendor          *string `json:"vendor" validate:"omitempty,max=255"`
	EmploymentType  *string `json:"employment_type"`
	IsExternal      *bool   `json:"is_external"`
	IsVacancy       *bool   `json:"is_vacancy"`
	SupervisorID    *uint   `json:"supervisor_id"`
	ClearSupervisor bool    `json:"clear_supervisor"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Role = strings.TrimSpace(d.Role)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	if _, err := ParseEmploymentType(d.EmploymentType); err != nil {
		errs["EmploymentType"] = "unknown employment type"
	}
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity() (Member, error) {
	et, err := ParseEmploymentType(d.EmploymentType)
	if err != nil {
		return Member{}, err
	}
	m := New(d.Name, d.Email, d.Role, et).
		WithProfile(Profile{
			Function:  d.Function,
			Geography: d.Geography,
			Location:  d.Location,
			ImageURL:  d.ImageURL,
			Vendor:    d.Vendor,
		}).
		WithExternal(d.IsExternal).
		WithVacancy(d.IsVacancy)
	if d.SupervisorID != nil {
		m = m.WithSupervisor(d.SupervisorID)
	}
	return m, nil
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	if d.EmploymentType != nil {
		if _, err := ParseEmploymentType(*d.EmploymentType); err != nil {
			errs["EmploymentType"] = "unknown employment type"
		}
	}
	if d.SupervisorID != nil && d.ClearSupervisor {
		errs["SupervisorID"] = "cannot set and clear supervisor at once"
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Fields() (UpdateFields, error) {
	f := UpdateFields{
		Name:       d.Name,
		Role:       d.Role,
		Function:   d.Function,
		Geography:  d.Geography,
		Location:   d.Location,
		ImageURL:   d.ImageURL,
		Vendor:     d.Vendor,
		IsExternal: d.IsExternal,
		IsVacancy:  d.IsVacancy,
	}
	if d.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*d.Email))
		f.Email = &email
	}
	if d.EmploymentType != nil {
		et, err := ParseEmploymentType(*d.EmploymentType)
		if err != nil {
			return UpdateFields{}, err
		}
		f.EmploymentType = &et
	}
	if d.ClearSupervisor {
		f.Supervisor = &SupervisorChange{ID: nil}
	} else if d.SupervisorID != nil {
		f.Supervisor = &SupervisorChange{ID: d.SupervisorID}
	}
	return f, nil
}
