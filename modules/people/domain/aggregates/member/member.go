package member

import (
	"errors"
	"strings"
	"time"
)

// EmploymentType splits the workforce into employees and contractors.
type EmploymentType string

const (
	Core   EmploymentType = "core"
	Subcon EmploymentType = "subcon"
)

var ErrUnknownEmploymentType = errors.New("unknown employment type")

func ParseEmploymentType(v string) (EmploymentType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "core":
		return Core, nil
	case "subcon":
		return Subcon, nil
	default:
		return "", ErrUnknownEmploymentType
	}
}

// Profile holds the descriptive attributes that never affect counters.
type Profile struct {
	Function  string
	Geography string
	Location  string
	ImageURL  string
	Vendor    string
}

type Member struct {
	id             uint
	name           string
	email          string
	role           string
	profile        Profile
	employmentType EmploymentType
	isExternal     bool
	isVacancy      bool
	supervisorID   *uint
	createdAt      time.Time
	updatedAt      time.Time
}

func New(name, email, role string, et EmploymentType) Member {
	return Member{
		name:           strings.TrimSpace(name),
		email:          strings.ToLower(strings.TrimSpace(email)),
		role:           strings.TrimSpace(role),
		employmentType: et,
	}
}

func Hydrate(
	id uint,
	name string,
	email string,
	role string,
	profile Profile,
	et EmploymentType,
	isExternal bool,
	isVacancy bool,
	supervisorID *uint,
	createdAt time.Time,
	updatedAt time.Time,
) Member {
	return Member{
		id:             id,
		name:           name,
		email:          email,
		role:           role,
		profile:        profile,
		employmentType: et,
		isExternal:     isExternal,
		isVacancy:      isVacancy,
		supervisorID:   supervisorID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (m Member) ID() uint                       { return m.id }
func (m Member) Name() string                   { return m.name }
func (m Member) Email() string                  { return m.email }
func (m Member) Role() string                   { return m.role }
func (m Member) Profile() Profile               { return m.profile }
func (m Member) EmploymentType() EmploymentType { return m.employmentType }
func (m Member) IsExternal() bool               { return m.isExternal }
func (m Member) IsVacancy() bool                { return m.isVacancy }
func (m Member) SupervisorID() *uint            { return m.supervisorID }
func (m Member) CreatedAt() time.Time           { return m.createdAt }
func (m Member) UpdatedAt() time.Time           { return m.updatedAt }

func (m Member) WithProfile(p Profile) Member {
	m.profile = p
	return m
}

// WithExternal marks the member as belonging to an outside organization.
func (m Member) WithExternal(v bool) Member {
	m.isExternal = v
	return m
}

// WithVacancy marks the member as an unfilled position placeholder.
func (m Member) WithVacancy(v bool) Member {
	m.isVacancy = v
	return m
}

func (m Member) WithSupervisor(id *uint) Member {
	m.supervisorID = id
	return m
}
