package area

type CreatedEvent struct {
	Result Area
}

type UpdatedEvent struct {
	Result Area
}

type DeletedEvent struct {
	ID uint
}
