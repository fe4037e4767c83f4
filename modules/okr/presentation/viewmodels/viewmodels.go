package viewmodels

type Objective struct {
	ID         uint        `json:"id"`
	Content    string      `json:"content"`
	AreaID     *uint       `json:"area_id"`
	TribeID    *uint       `json:"tribe_id"`
	SquadID    *uint       `json:"squad_id"`
	Cascade    bool        `json:"cascade"`
	KeyResults []KeyResult `json:"key_results"`
	CreatedAt  string      `json:"created_at"`
	UpdatedAt  string      `json:"updated_at"`
}

type KeyResult struct {
	ID           uint    `json:"id"`
	ObjectiveID  uint    `json:"objective_id"`
	Content      string  `json:"content"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Position     int     `json:"position"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
