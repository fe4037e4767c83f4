package objective

type CreatedEvent struct {
	Result Objective
}

type UpdatedEvent struct {
	Result Objective
}

type DeletedEvent struct {
	ID uint
}
