package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
)

func TestClampPosition(t *testing.T) {
	// inserting among 3 siblings allows positions 1..4
	require.Equal(t, 4, clampPosition(keyresult.PositionEnd, 4))
	require.Equal(t, 1, clampPosition(1, 4))
	require.Equal(t, 3, clampPosition(3, 4))
	require.Equal(t, 4, clampPosition(9, 4))
	require.Equal(t, 1, clampPosition(-2, 4))

	// moving within 3 siblings allows positions 1..3
	require.Equal(t, 3, clampPosition(keyresult.PositionEnd, 3))
	require.Equal(t, 3, clampPosition(7, 3))

	// an empty objective always lands the first key result at 1
	require.Equal(t, 1, clampPosition(keyresult.PositionEnd, 1))
	require.Equal(t, 1, clampPosition(5, 1))
}
