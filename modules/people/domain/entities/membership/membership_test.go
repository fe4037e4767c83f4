package membership

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNormalizesCapacity(t *testing.T) {
	cases := map[float64]float64{
		1.0:       1.0,
		0.5:       0.5,
		1.0 / 3.0: 0.33,
		0.005:     0.01,
		0.999:     1.0,
	}
	for in, want := range cases {
		m := New(1, 2, in, "Engineer")
		require.InDelta(t, want, m.Capacity(), 1e-9, "capacity %v", in)
	}
}
