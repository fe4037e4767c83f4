package viewmodels

type Member struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Function       string `json:"function"`
	Geography      string `json:"geography"`
	Location       string `json:"location"`
	ImageURL       string `json:"image_url"`
	Vendor         string `json:"vendor"`
	EmploymentType string `json:"employment_type"`
	IsExternal     bool   `json:"is_external"`
	IsVacancy      bool   `json:"is_vacancy"`
	SupervisorID   *uint  `json:"supervisor_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type Membership struct {
	ID       uint    `json:"id"`
	MemberID uint    `json:"member_id"`
	SquadID  uint    `json:"squad_id"`
	Capacity float64 `json:"capacity"`
	Role     string  `json:"role"`
}

type MemberDetail struct {
	Member
	Memberships []Membership `json:"memberships"`
}
