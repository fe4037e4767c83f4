package tribe

type CreatedEvent struct {
	Result Tribe
}

type UpdatedEvent struct {
	Result Tribe
}

// ReparentedEvent fires when a tribe moves to a different area. Both
// affected subtrees need their counters recomputed.
type ReparentedEvent struct {
	Result    Tribe
	OldAreaID uint
}

type DeletedEvent struct {
	ID     uint
	AreaID uint
}
