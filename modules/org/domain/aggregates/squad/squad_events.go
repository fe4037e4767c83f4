package squad

type CreatedEvent struct {
	Result Squad
}

type UpdatedEvent struct {
	Result Squad
}

type ReparentedEvent struct {
	Result     Squad
	OldTribeID uint
}

type DeletedEvent struct {
	ID      uint
	TribeID uint
}
