package squad

import (
	"errors"
	"strings"
	"time"

	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
)

// TeamType is the Team Topologies classification of a squad.
type TeamType string

const (
	StreamAligned        TeamType = "stream_aligned"
	Platform             TeamType = "platform"
	Enabling             TeamType = "enabling"
	ComplicatedSubsystem TeamType = "complicated_subsystem"
)

var ErrUnknownTeamType = errors.New("unknown team type")

func ParseTeamType(v string) (TeamType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "stream_aligned", "":
		return StreamAligned, nil
	case "platform":
		return Platform, nil
	case "enabling":
		return Enabling, nil
	case "complicated_subsystem":
		return ComplicatedSubsystem, nil
	default:
		return "", ErrUnknownTeamType
	}
}

// Contact groups the squad's communication and documentation endpoints.
type Contact struct {
	TeamsChannel string `json:"teams_channel"`
	SlackChannel string `json:"slack_channel"`
	Email        string `json:"email"`
	DocsURL      string `json:"docs_url"`
	IssueTracker string `json:"issue_tracker_url"`
}

type Squad struct {
	id          uint
	tribeID     uint
	name        string
	description string
	status      string
	timezone    string
	teamType    TeamType
	contact     Contact
	counters    rollup.Counters
	createdAt   time.Time
	updatedAt   time.Time
}

func New(tribeID uint, name, description string, teamType TeamType) Squad {
	return Squad{
		tribeID:     tribeID,
		name:        strings.TrimSpace(name),
		description: description,
		teamType:    teamType,
	}
}

func Hydrate(
	id uint,
	tribeID uint,
	name string,
	description string,
	status string,
	timezone string,
	teamType TeamType,
	contact Contact,
	counters rollup.Counters,
	createdAt time.Time,
	updatedAt time.Time,
) Squad {
	return Squad{
		id:          id,
		tribeID:     tribeID,
		name:        name,
		description: description,
		status:      status,
		timezone:    timezone,
		teamType:    teamType,
		contact:     contact,
		counters:    counters,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s Squad) ID() uint                  { return s.id }
func (s Squad) TribeID() uint             { return s.tribeID }
func (s Squad) Name() string              { return s.name }
func (s Squad) Description() string       { return s.description }
func (s Squad) Status() string            { return s.status }
func (s Squad) Timezone() string          { return s.timezone }
func (s Squad) TeamType() TeamType        { return s.teamType }
func (s Squad) Contact() Contact          { return s.contact }
func (s Squad) Counters() rollup.Counters { return s.counters }
func (s Squad) CreatedAt() time.Time      { return s.createdAt }
func (s Squad) UpdatedAt() time.Time      { return s.updatedAt }
