package service

import (
	"errors"
	"strings"
	"time"
)

// Status tracks the operational health of a service.
type Status string

const (
	Healthy  Status = "healthy"
	Degraded Status = "degraded"
	Down     Status = "down"
)

var ErrUnknownStatus = errors.New("unknown service status")

func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "healthy", "":
		return Healthy, nil
	case "degraded":
		return Degraded, nil
	case "down":
		return Down, nil
	default:
		return "", ErrUnknownStatus
	}
}

type Type string

const (
	TypeAPI       Type = "api"
	TypeRepo      Type = "repo"
	TypePlatform  Type = "platform"
	TypeWebpage   Type = "webpage"
	TypeAppModule Type = "app_module"
)

var ErrUnknownType = errors.New("unknown service type")

func ParseType(v string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "api", "":
		return TypeAPI, nil
	case "repo":
		return TypeRepo, nil
	case "platform":
		return TypePlatform, nil
	case "webpage":
		return TypeWebpage, nil
	case "app_module":
		return TypeAppModule, nil
	default:
		return "", ErrUnknownType
	}
}

type Service struct {
	id          uint
	squadID     uint
	name        string
	description string
	status      Status
	uptime      float64
	version     string
	serviceType Type
	url         string
	docsURL     string
	createdAt   time.Time
	updatedAt   time.Time
}

func New(squadID uint, name, description string, status Status, serviceType Type) Service {
	return Service{
		squadID:     squadID,
		name:        strings.TrimSpace(name),
		description: description,
		status:      status,
		serviceType: serviceType,
	}
}

func Hydrate(
	id uint,
	squadID uint,
	name string,
	description string,
	status Status,
	uptime float64,
	version string,
	serviceType Type,
	url string,
	docsURL string,
	createdAt time.Time,
	updatedAt time.Time,
) Service {
	return Service{
		id:          id,
		squadID:     squadID,
		name:        name,
		description: description,
		status:      status,
		uptime:      uptime,
		version:     version,
		serviceType: serviceType,
		url:         url,
		docsURL:     docsURL,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s Service) ID() uint             { return s.id }
func (s Service) SquadID() uint        { return s.squadID }
func (s Service) Name() string         { return s.name }
func (s Service) Description() string  { return s.description }
func (s Service) Status() Status       { return s.status }
func (s Service) Uptime() float64      { return s.uptime }
func (s Service) Version() string      { return s.version }
func (s Service) ServiceType() Type    { return s.serviceType }
func (s Service) URL() string          { return s.url }
func (s Service) DocsURL() string      { return s.docsURL }
func (s Service) CreatedAt() time.Time { return s.createdAt }
func (s Service) UpdatedAt() time.Time { return s.updatedAt }

func (s Service) WithUptime(v float64) Service {
	s.uptime = v
	return s
}

func (s Service) WithVersion(v string) Service {
	s.version = v
	return s
}

func (s Service) WithURLs(url, docsURL string) Service {
	s.url = url
	s.docsURL = docsURL
	return s
}
