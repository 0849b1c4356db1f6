package pcd

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	c := New(r3.Vector{X: 281500, Y: 1614100}, []r3.Vector{
		{X: 281510.5, Y: 1614079.75, Z: 3.25},
		{X: 281501.25, Y: 1614102.25, Z: 4.25},
		{X: 281515, Y: 1614121, Z: 0.25},
	})

	min, max, err := MinMax(c)
	require.NoError(t, err)
	assert.Equal(t, r3.Vector{X: 281501.25, Y: 1614079.75, Z: 0.25}, min)
	assert.Equal(t, r3.Vector{X: 281515, Y: 1614121, Z: 4.25}, max)

	_, _, err = MinMax(New(r3.Vector{}, nil))
	assert.ErrorIs(t, err, ErrEmptyCloud)
}

func TestHeightRange(t *testing.T) {
	testCases := map[string]struct {
		points   []r3.Vector
		min, max float64
		ok       bool
	}{
		"Empty": {},
		"Single": {
			points: []r3.Vector{{X: 1, Y: 2, Z: 3}},
			min:    3, max: 3, ok: true,
		},
		"Multiple": {
			points: []r3.Vector{{Z: 3}, {Z: -1}, {Z: 10}},
			min:    -1, max: 10, ok: true,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			min, max, ok := New(r3.Vector{}, tt.points).HeightRange()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestCentroid(t *testing.T) {
	c := New(r3.Vector{X: 1000, Y: 2000}, []r3.Vector{
		{X: 999, Y: 2000, Z: 5},
		{X: 1001, Y: 2000, Z: 5},
		{X: 1000, Y: 1998, Z: 7},
		{X: 1000, Y: 2002, Z: 7},
	})
	centroid, ok := c.Centroid()
	require.True(t, ok)
	assert.Equal(t, r3.Vector{X: 1000, Y: 2000, Z: 6}, centroid)

	_, ok = (*Cloud)(nil).Centroid()
	assert.False(t, ok)
}
