package oncall

type UpdatedEvent struct {
	Result Roster
}

type DeletedEvent struct {
	SquadID uint
}
