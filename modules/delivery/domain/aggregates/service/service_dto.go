package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type CreateDTO struct {
	SquadID     uint    `json:"squad_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=4000"`
	Status      string  `json:"status"`
	Uptime      float64 `json:"uptime" validate:"min=0,max=100"`
	Version     string  `json:"version" validate:"max=64"`
	ServiceType string  `json:"service_type"`
	URL         string  `json:"url" validate:"omitempty,url,max=2048"`
	DocsURL     string  `json:"docs_url" validate:"omitempty,url,max=2048"`
}

type UpdateDTO struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=4000"`
	Status      *string  `json:"status"`
	Uptime      *float64 `json:"uptime" validate:"omitempty,min=0,max=100"`
	Version     *string  `json:"version" validate:"omitempty,max=64"`
	ServiceType *string  `json:"service_type"`
	URL         *string  `json:"url" validate:"omitempty,url,max=2048"`
	DocsURL     *string  `json:"docs_url" validate:"omitempty,url,max=2048"`
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
	if _, err := ParseStatus(d.Status); err != nil {
		errs["Status"] = "unknown service status"
	}
	if _, err := ParseType(d.ServiceType); err != nil {
		errs["ServiceType"] = "unknown service type"
	}
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity() (Service, error) {
	status, err := ParseStatus(d.Status)
	if err != nil {
		return Service{}, err
	}
	st, err := ParseType(d.ServiceType)
	if err != nil {
		return Service{}, err
	}
	return New(d.SquadID, d.Name, d.Description, status, st).
		WithUptime(d.Uptime).
		WithVersion(d.Version).
		WithURLs(d.URL, d.DocsURL), nil
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs[fe.Field()] = fe.Tag()
		}
	}
	if d.Status != nil {
		if _, err := ParseStatus(*d.Status); err != nil {
			errs["Status"] = "unknown service status"
		}
	}
	if d.ServiceType != nil {
		if _, err := ParseType(*d.ServiceType); err != nil {
			errs["ServiceType"] = "unknown service type"
		}
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Fields() (UpdateFields, error) {
	f := UpdateFields{
		Name:        d.Name,
		Description: d.Description,
		Uptime:      d.Uptime,
		Version:     d.Version,
		URL:         d.URL,
		DocsURL:     d.DocsURL,
	}
	if d.Status != nil {
		status, err := ParseStatus(*d.Status)
		if err != nil {
			return UpdateFields{}, err
		}
		f.Status = &status
	}
	if d.ServiceType != nil {
		st, err := ParseType(*d.ServiceType)
		if err != nil {
			return UpdateFields{}, err
		}
		f.ServiceType = &st
	}
	return f, nil
}
