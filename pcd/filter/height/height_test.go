package height

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbove(t *testing.T) {
	in := pcd.New(r3.Vector{X: 100}, []r3.Vector{
		{X: 100, Z: 0.1},
		{X: 101, Z: 2},
		{X: 102, Z: 2.5},
		{X: 103, Z: -1},
		{X: 104, Z: 12},
	})
	testCases := map[string]struct {
		threshold float64
		expected  []r3.Vector
	}{
		"Strict": {
			threshold: 2,
			expected:  []r3.Vector{{X: 102, Z: 2.5}, {X: 104, Z: 12}},
		},
		"Low": {
			threshold: 0.5,
			expected:  []r3.Vector{{X: 101, Z: 2}, {X: 102, Z: 2.5}, {X: 104, Z: 12}},
		},
		"All": {
			threshold: -10,
			expected:  in.WorldPoints(),
		},
		"None": {
			threshold: 100,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			out, err := New(tt.threshold).Filter(in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.WorldPoints())
		})
	}
}
