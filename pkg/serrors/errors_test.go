package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindValidation, KindOf(Validation("X", "x")))
	require.Equal(t, KindConflict, KindOf(Conflict("X", "x")))
	require.Equal(t, KindNotFound, KindOf(NotFound("X", "x")))
	require.Equal(t, KindAuth, KindOf(Auth("X", "x")))
	require.Equal(t, KindInternal, KindOf(errors.New("plain")))
	require.Equal(t, KindBatch, KindOf(NewBatchError(3, nil, errors.New("boom"))))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("SQUAD_NOT_FOUND", "squad not found"))
	require.Equal(t, KindNotFound, KindOf(err))

	base := AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "SQUAD_NOT_FOUND", base.Code())
}

func TestBase_WithFieldAndCause(t *testing.T) {
	cause := errors.New("db says no")
	base := Validation("CAPACITY_NEGATIVE", "capacity cannot be negative")
	annotated := base.WithField("capacity").WithCause(cause)

	require.Equal(t, "capacity", annotated.Field())
	require.ErrorIs(t, annotated, cause)
	// the original stays untouched
	require.Empty(t, base.Field())
	require.Nil(t, base.Unwrap())
}

func TestBatchError_Unwrap(t *testing.T) {
	cause := errors.New("constraint violated")
	err := NewBatchError(2, []RowReport{{Row: 4, Code: "SQUAD_UNKNOWN"}}, cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "2 applied rows")
	require.Contains(t, err.Error(), "1 row reports")
}
