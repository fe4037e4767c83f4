package viewmodels

import "github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"

type Area struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Label       string          `json:"label"`
	Counters    rollup.Counters `json:"counters"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type Tribe struct {
	ID          uint            `json:"id"`
	AreaID      uint            `json:"area_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Label       string          `json:"label"`
	Counters    rollup.Counters `json:"counters"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type SquadContact struct {
	TeamsChannel string `json:"teams_channel"`
	SlackChannel string `json:"slack_channel"`
	Email        string `json:"email"`
	DocsURL      string `json:"docs_url"`
	IssueTracker string `json:"issue_tracker_url"`
}

type Squad struct {
	ID          uint            `json:"id"`
	TribeID     uint            `json:"tribe_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Timezone    string          `json:"timezone"`
	TeamType    string          `json:"team_type"`
	Contact     SquadContact    `json:"contact_info"`
	Counters    rollup.Counters `json:"counters"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type Override struct {
	ID          uint   `json:"id"`
	EntityKind  string `json:"entity_kind"`
	EntityID    uint   `json:"entity_id"`
	Description string `json:"description"`
	EditedBy    string `json:"edited_by"`
	CreatedAt   string `json:"created_at"`
}
