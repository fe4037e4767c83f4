package membership

type AddedEvent struct {
	Result Membership
}

type UpdatedEvent struct {
	Result Membership
}

type RemovedEvent struct {
	MemberID uint
	SquadID  uint
}
