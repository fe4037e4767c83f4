package keyresult

type CreatedEvent struct {
	Result KeyResult
}

type UpdatedEvent struct {
	Result KeyResult
}

type DeletedEvent struct {
	ID          uint
	ObjectiveID uint
}
