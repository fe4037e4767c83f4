package viewmodels

type Service struct {
	ID          uint    `json:"id"`
	SquadID     uint    `json:"squad_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Uptime      float64 `json:"uptime"`
	Version     string  `json:"version"`
	ServiceType string  `json:"service_type"`
	URL         string  `json:"url"`
	DocsURL     string  `json:"docs_url"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type Dependency struct {
	ID              uint   `json:"id"`
	DependentID     uint   `json:"dependent_squad_id"`
	DependencyID    uint   `json:"dependency_squad_id"`
	Name            string `json:"name"`
	InteractionMode string `json:"interaction_mode"`
	Frequency       string `json:"frequency"`
	CreatedAt       string `json:"created_at"`
}

type Roster struct {
	ID               uint   `json:"id"`
	SquadID          uint   `json:"squad_id"`
	PrimaryName      string `json:"primary_name"`
	PrimaryContact   string `json:"primary_contact"`
	SecondaryName    string `json:"secondary_name"`
	SecondaryContact string `json:"secondary_contact"`
	UpdatedAt        string `json:"updated_at"`
}
