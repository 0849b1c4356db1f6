package polygon

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygon(t *testing.T) {
	square := []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	survey := []r2.Point{
		{X: 281580.799, Y: 1614183.657},
		{X: 281535.686, Y: 1614142.893},
		{X: 281585.177, Y: 1614088.225},
		{X: 281630.142, Y: 1614128.812},
	}

	testCases := map[string]struct {
		vertices []r2.Point
		origin   r3.Vector
		points   []r3.Vector
		expected []r3.Vector
	}{
		"Square": {
			vertices: square,
			points: []r3.Vector{
				{X: 5, Y: 5, Z: 1},
				{X: 15, Y: 5, Z: 1},
				{X: 0.5, Y: 9.5, Z: 3},
				{X: -1, Y: -1, Z: 0},
			},
			expected: []r3.Vector{
				{X: 5, Y: 5, Z: 1},
				{X: 0.5, Y: 9.5, Z: 3},
			},
		},
		"Triangle": {
			vertices: []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}},
			points: []r3.Vector{
				{X: 2, Y: 2},
				{X: 7, Y: 7},
				{X: 4.5, Y: 4.4},
			},
			expected: []r3.Vector{
				{X: 2, Y: 2},
				{X: 4.5, Y: 4.4},
			},
		},
		"Survey": {
			vertices: survey,
			origin:   r3.Vector{X: 281500, Y: 1614100},
			points: []r3.Vector{
				{X: 281582.5, Y: 1614135.5, Z: 12},
				{X: 281500.5, Y: 1614135.5, Z: 12},
				{X: 281620.5, Y: 1614100.5, Z: 3},
			},
			expected: []r3.Vector{
				{X: 281582.5, Y: 1614135.5, Z: 12},
			},
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			f, err := New(tt.vertices)
			require.NoError(t, err)
			out, err := f.Filter(pcd.New(tt.origin, tt.points))
			require.NoError(t, err)
			got := out.WorldPoints()
			require.Len(t, got, len(tt.expected))
			for i, e := range tt.expected {
				assert.InDelta(t, e.X, got[i].X, 1e-3)
				assert.InDelta(t, e.Y, got[i].Y, 1e-3)
				assert.InDelta(t, e.Z, got[i].Z, 1e-3)
			}
		})
	}
}

func TestPolygon_TooFewVertices(t *testing.T) {
	_, err := New([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.ErrorIs(t, err, ErrTooFewVertices)
}

func TestPolygon_Empty(t *testing.T) {
	f, err := New([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	require.NoError(t, err)
	out, err := f.Filter(pcd.New(r3.Vector{}, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}
