package dependency

type CreatedEvent struct {
	Result Dependency
}

type DeletedEvent struct {
	ID uint
}
