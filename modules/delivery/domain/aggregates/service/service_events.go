package service

type CreatedEvent struct {
	Result Service
}

type UpdatedEvent struct {
	Result Service
}

type DeletedEvent struct {
	ID uint
}
