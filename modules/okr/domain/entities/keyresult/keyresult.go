package keyresult

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("key result not found")

// PositionEnd appends the key result after its current siblings.
const PositionEnd = 0

// KeyResult is a measurable outcome under an objective. Positions are
// 1-based and dense within the parent objective; inserting, moving or
// deleting a key result reshuffles its siblings to keep them contiguous.
type KeyResult struct {
	id           uint
	objectiveID  uint
	content      string
	currentValue float64
	targetValue  float64
	position     int
	createdAt    time.Time
	updatedAt    time.Time
}

func New(objectiveID uint, content string, currentValue, targetValue float64) KeyResult {
	return KeyResult{
		objectiveID:  objectiveID,
		content:      strings.TrimSpace(content),
		currentValue: currentValue,
		targetValue:  targetValue,
	}
}

func Hydrate(
	id uint,
	objectiveID uint,
	content string,
	currentValue, targetValue float64,
	position int,
	createdAt, updatedAt time.Time,
) KeyResult {
	return KeyResult{
		id:           id,
		objectiveID:  objectiveID,
		content:      content,
		currentValue: currentValue,
		targetValue:  targetValue,
		position:     position,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (k KeyResult) ID() uint              { return k.id }
func (k KeyResult) ObjectiveID() uint     { return k.objectiveID }
func (k KeyResult) Content() string       { return k.content }
func (k KeyResult) CurrentValue() float64 { return k.currentValue }
func (k KeyResult) TargetValue() float64  { return k.targetValue }
func (k KeyResult) Position() int         { return k.position }
func (k KeyResult) CreatedAt() time.Time  { return k.createdAt }
func (k KeyResult) UpdatedAt() time.Time  { return k.updatedAt }

type UpdateFields struct {
	Content      *string
	CurrentValue *float64
	TargetValue  *float64
	Position     *int
}

type Repository interface {
	GetByObjective(ctx context.Context, objectiveID uint) ([]KeyResult, error)
	GetByID(ctx context.Context, id uint) (KeyResult, error)
	// Insert places the key result at the requested position, shifting
	// later siblings down. PositionEnd (or any position past the last
	// sibling) appends.
	Insert(ctx context.Context, data KeyResult, position int) (KeyResult, error)
	Update(ctx context.Context, id uint, fields UpdateFields) (KeyResult, error)
	Delete(ctx context.Context, id uint) error
}
